package usecase

import (
	"strconv"
	"strings"

	"voterdata-service/internal/domain/entity"
	"voterdata-service/pkg/logger"
	"voterdata-service/pkg/spreadsheet"
)

// Canonical attribute keys. Values match the store field spellings.
const (
	attrSerialNumber = "serialNumber"
	attrHouseNumber  = "houseNumber"
	attrName         = "name"
	attrNameMr       = "name_mr"
	attrGender       = "gender"
	attrGenderMr     = "gender_mr"
	attrAge          = "age"
	attrVoterIDCard  = "voterIdCard"
	attrMobileNumber = "mobileNumber"
	attrACNo         = "AC_NO"
	attrPartNo       = "PART_NO"
	attrSlNoInPart   = "SLNOINPART"
	attrSectionNo    = "SECTION_NO"
	attrEpicNo       = "EPIC_NO"
	attrDOB          = "DOB"
	attrFMNameEn     = "FM_NAME_EN"
	attrMNNameEn     = "MN_NAME_EN"
	attrLastNameEn   = "LASTNAME_EN"
	attrFMNameV1     = "FM_NAME_V1"
	attrLastNameV1   = "LASTNAME_V1"
	attrRlnType      = "RLN_TYPE"
	attrRlnFMNmEn    = "RLN_FM_NM_EN"
	attrRlnLNmEn     = "RLN_L_NM_EN"
	attrRlnFMNmV1    = "RLN_FM_NM_V1"
	attrRlnLNmV1     = "RLN_L_NM_V1"
	attrCHouseNo     = "C_HOUSE_NO"
	attrCHouseNoV1   = "C_HOUSE_NO_V1"
	attrAdr1         = "adr1"
	attrAdr2         = "adr2"
	attrPSAdr1       = "POLLING_STATION_ADR1"
	attrPSAdr2       = "POLLING_STATION_ADR2"
	attrPP           = "pp"
)

// headerAliases maps every known header spelling, across the legacy Excel
// exports and the newer PDF-derived extracts, onto one canonical attribute.
// Keys are in normalized form (see normalizeHeader). Unknown headers are
// ignored so extra columns in future extracts do not break ingestion.
var headerAliases = map[string]string{
	"serialnumber":  attrSerialNumber,
	"serial_no":     attrSerialNumber,
	"serial_number": attrSerialNumber,
	"sr_no":         attrSerialNumber,
	"srno":          attrSerialNumber,
	"sl_no":         attrSerialNumber,
	"अनुक्रमांक":    attrSerialNumber,

	"housenumber":  attrHouseNumber,
	"house_no":     attrHouseNumber,
	"house_number": attrHouseNumber,
	"घर_क्रमांक":   attrHouseNumber,

	"name":       attrName,
	"voter_name": attrName,
	"full_name":  attrName,
	"name_en":    attrName,

	"name_mr":      attrNameMr,
	"name_marathi": attrNameMr,
	"नाव":          attrNameMr,
	"मराठी_नाव":    attrNameMr,

	"gender": attrGender,
	"sex":    attrGender,

	"gender_mr": attrGenderMr,
	"लिंग":      attrGenderMr,

	"age": attrAge,
	"वय":  attrAge,

	"voteridcard":   attrVoterIDCard,
	"voter_id":      attrVoterIDCard,
	"voter_id_card": attrVoterIDCard,
	"card_no":       attrVoterIDCard,
	"epic":          attrVoterIDCard,

	"mobilenumber": attrMobileNumber,
	"mobile":       attrMobileNumber,
	"mobile_no":    attrMobileNumber,
	"phone":        attrMobileNumber,
	"phone_no":     attrMobileNumber,

	"ac_no":         attrACNo,
	"part_no":       attrPartNo,
	"slnoinpart":    attrSlNoInPart,
	"sl_no_in_part": attrSlNoInPart,
	"section_no":    attrSectionNo,
	"epic_no":       attrEpicNo,

	"dob":           attrDOB,
	"date_of_birth": attrDOB,

	"fm_name_en":   attrFMNameEn,
	"mn_name_en":   attrMNNameEn,
	"lastname_en":  attrLastNameEn,
	"last_name_en": attrLastNameEn,
	"fm_name_v1":   attrFMNameV1,
	"lastname_v1":  attrLastNameV1,
	"last_name_v1": attrLastNameV1,

	"rln_type":     attrRlnType,
	"rln_fm_nm_en": attrRlnFMNmEn,
	"rln_l_nm_en":  attrRlnLNmEn,
	"rln_fm_nm_v1": attrRlnFMNmV1,
	"rln_l_nm_v1":  attrRlnLNmV1,

	"c_house_no":    attrCHouseNo,
	"c_house_no_v1": attrCHouseNoV1,

	"adr1":      attrAdr1,
	"address1":  attrAdr1,
	"address_1": attrAdr1,
	"adr2":      attrAdr2,
	"address2":  attrAdr2,
	"address_2": attrAdr2,

	"polling_station_adr1": attrPSAdr1,
	"polling_station_adr2": attrPSAdr2,

	"pp": attrPP,
}

// FieldMapper turns raw spreadsheet rows into canonical voter records
type FieldMapper struct {
	logger logger.Logger
}

// NewFieldMapper creates a new field mapper
func NewFieldMapper(logger logger.Logger) *FieldMapper {
	return &FieldMapper{logger: logger}
}

// MapRow maps one raw row onto a VoterRecord. A row without a usable name
// fails validation and is excluded from the batch; every other field is
// optional and malformed optional data degrades to absence.
func (m *FieldMapper) MapRow(row spreadsheet.Row) (*entity.VoterRecord, *entity.RowFailure) {
	record := &entity.VoterRecord{}

	for header, raw := range row.Cells {
		attr, known := headerAliases[normalizeHeader(header)]
		if !known {
			continue
		}
		value := cleanValue(raw)
		if value == "" {
			continue
		}
		m.setAttr(record, attr, value)
	}

	if record.Name == "" {
		return nil, &entity.RowFailure{Row: row.Index, Reason: entity.ReasonMissingName}
	}
	return record, nil
}

func (m *FieldMapper) setAttr(record *entity.VoterRecord, attr, value string) {
	switch attr {
	case attrSerialNumber:
		record.SerialNumber = value
	case attrHouseNumber:
		record.HouseNumber = value
	case attrName:
		record.Name = value
	case attrNameMr:
		record.NameMr = value
	case attrGender:
		record.Gender = value
	case attrGenderMr:
		record.GenderMr = value
	case attrAge:
		if age, ok := coerceAge(value); ok {
			record.Age = &age
		}
	case attrVoterIDCard:
		record.VoterIDCard = value
	case attrMobileNumber:
		record.MobileNumber = value
	case attrACNo:
		record.ACNo = value
	case attrPartNo:
		record.PartNo = value
	case attrSlNoInPart:
		record.SlNoInPart = value
	case attrSectionNo:
		record.SectionNo = value
	case attrEpicNo:
		record.EpicNo = value
	case attrDOB:
		record.DOB = value
	case attrFMNameEn:
		record.FMNameEn = value
	case attrMNNameEn:
		record.MNNameEn = value
	case attrLastNameEn:
		record.LastNameEn = value
	case attrFMNameV1:
		record.FMNameV1 = value
	case attrLastNameV1:
		record.LastNameV1 = value
	case attrRlnType:
		record.RlnType = value
	case attrRlnFMNmEn:
		record.RlnFMNmEn = value
	case attrRlnLNmEn:
		record.RlnLNmEn = value
	case attrRlnFMNmV1:
		record.RlnFMNmV1 = value
	case attrRlnLNmV1:
		record.RlnLNmV1 = value
	case attrCHouseNo:
		record.CHouseNo = value
	case attrCHouseNoV1:
		record.CHouseNoV1 = value
	case attrAdr1:
		record.Adr1 = value
	case attrAdr2:
		record.Adr2 = value
	case attrPSAdr1:
		record.PollingStationAdr1 = value
	case attrPSAdr2:
		record.PollingStationAdr2 = value
	case attrPP:
		record.PP = value
	}
}

// normalizeHeader folds a declared header into the alias table key form:
// lower case, dots stripped, runs of spaces, dashes and underscores
// collapsed to a single underscore.
func normalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.ReplaceAll(h, ".", "")
	fields := strings.FieldsFunc(h, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '\t'
	})
	return strings.Join(fields, "_")
}

// cleanValue trims whitespace and turns the placeholder spellings the
// source spreadsheets use interchangeably with blank cells into absence.
// Vernacular script content passes through byte-for-byte.
func cleanValue(raw string) string {
	v := strings.TrimSpace(raw)
	switch v {
	case "", "-", "--":
		return ""
	}
	switch strings.ToUpper(v) {
	case "NA", "N/A", "NIL", "NULL":
		return ""
	}
	return v
}

// coerceAge parses an age cell. Excel sometimes serializes integers as
// floats; anything else, or a negative value, is treated as absent rather
// than failing the row.
func coerceAge(value string) (int, bool) {
	if age, err := strconv.Atoi(value); err == nil {
		return age, age >= 0
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		age := int(f)
		return age, float64(age) == f && age >= 0
	}
	return 0, false
}
