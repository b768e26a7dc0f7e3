package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// bilingual is a user-facing message in English and Marathi. Every error
// response carries both channels.
type bilingual struct {
	EN string
	MR string
}

var (
	msgUnexpectedField = bilingual{
		EN: `Unexpected file field. Use field name "file".`,
		MR: `अनपेक्षित फाइल फील्ड. "file" हे फील्ड नाव वापरा.`,
	}
	msgUploadFailed = bilingual{
		EN: "File upload failed.",
		MR: "फाइल अपलोड अयशस्वी झाले.",
	}
	msgUnparseableFile = bilingual{
		EN: "Could not parse the uploaded file. Upload a valid Excel workbook (.xlsx).",
		MR: "अपलोड केलेली फाइल वाचता आली नाही. वैध Excel फाइल (.xlsx) अपलोड करा.",
	}
	msgEmptyQuery = bilingual{
		EN: "Search query is required.",
		MR: "शोध क्वेरी आवश्यक आहे.",
	}
	msgInvalidID = bilingual{
		EN: "Invalid voter id format.",
		MR: "अवैध voter id स्वरूप.",
	}
	msgNotFound = bilingual{
		EN: "Voter not found.",
		MR: "मतदार सापडला नाही.",
	}
	msgInternal = bilingual{
		EN: "Something went wrong. Please try again.",
		MR: "काहीतरी चूक झाली. कृपया पुन्हा प्रयत्न करा.",
	}
	msgAuditDisabled = bilingual{
		EN: "Upload audit trail is not enabled on this deployment.",
		MR: "या deployment वर अपलोड audit trail सक्षम नाही.",
	}

	suggestionConstrained = bilingual{
		EN: "This deployment caps request bodies at 4.5MB. Split the spreadsheet into smaller files or use an unconstrained deployment.",
		MR: "या deployment वर request ची मर्यादा 4.5MB आहे. फाइल लहान भागांमध्ये विभाजित करा किंवा unconstrained deployment वापरा.",
	}
	suggestionUnconstrained = bilingual{
		EN: "Reduce the file size or increase the MAX_FILE_SIZE_MB environment variable.",
		MR: "फाइलचा आकार कमी करा किंवा MAX_FILE_SIZE_MB environment variable वाढवा.",
	}
)

// errorBody is the JSON error shape. The size-limit extras are only present
// on 413 responses.
type errorBody struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageMr string `json:"message_mr"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`

	FileSize     string `json:"fileSize,omitempty"`
	MaxSize      string `json:"maxSize,omitempty"`
	Platform     string `json:"platform,omitempty"`
	Suggestion   string `json:"suggestion,omitempty"`
	SuggestionMr string `json:"suggestion_mr,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, msg bilingual, detail string) {
	writeJSON(w, status, errorBody{
		Message:   msg.EN,
		MessageMr: msg.MR,
		Error:     detail,
	})
}

// writePayloadTooLarge reports which ceiling was hit and how to get around it.
func writePayloadTooLarge(w http.ResponseWriter, observedBytes int64, maxMB float64, constrained bool, errorCode string) {
	platform := "Server"
	suggestion := suggestionUnconstrained
	if constrained {
		platform = "Serverless"
		suggestion = suggestionConstrained
	}

	maxSize := fmt.Sprintf("%gMB", maxMB)
	body := errorBody{
		Message:      fmt.Sprintf("File too large. Maximum %s allowed.", maxSize),
		MessageMr:    fmt.Sprintf("फाइल खूप मोठी आहे. जास्तीत जास्त %s परवानगी आहे.", maxSize),
		ErrorCode:    errorCode,
		MaxSize:      maxSize,
		Platform:     platform,
		Suggestion:   suggestion.EN,
		SuggestionMr: suggestion.MR,
	}
	if observedBytes > 0 {
		body.FileSize = fmt.Sprintf("%.2fMB", float64(observedBytes)/(1024*1024))
	}
	writeJSON(w, http.StatusRequestEntityTooLarge, body)
}
