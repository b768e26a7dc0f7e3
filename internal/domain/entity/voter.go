package entity

import (
	"time"
)

// VoterRecord is the canonical elector record. Field spellings mix legacy
// lower-camel names and upper-snake names carried over from the PDF extract
// schema; both generations coexist in one collection and the JSON surface
// must keep the original spellings.
type VoterRecord struct {
	ID           string `bson:"_id,omitempty" json:"_id,omitempty"`
	SerialNumber string `bson:"serialNumber,omitempty" json:"serialNumber,omitempty"`
	HouseNumber  string `bson:"houseNumber,omitempty" json:"houseNumber,omitempty"`
	Name         string `bson:"name" json:"name"`
	NameMr       string `bson:"name_mr,omitempty" json:"name_mr,omitempty"`
	Gender       string `bson:"gender,omitempty" json:"gender,omitempty"`
	GenderMr     string `bson:"gender_mr,omitempty" json:"gender_mr,omitempty"`
	Age          *int   `bson:"age,omitempty" json:"age,omitempty"`
	VoterIDCard  string `bson:"voterIdCard,omitempty" json:"voterIdCard,omitempty"`
	MobileNumber string `bson:"mobileNumber,omitempty" json:"mobileNumber,omitempty"`

	// Electoral-roll linkage from the PDF extracts
	ACNo       string `bson:"AC_NO,omitempty" json:"AC_NO,omitempty"`
	PartNo     string `bson:"PART_NO,omitempty" json:"PART_NO,omitempty"`
	SlNoInPart string `bson:"SLNOINPART,omitempty" json:"SLNOINPART,omitempty"`
	SectionNo  string `bson:"SECTION_NO,omitempty" json:"SECTION_NO,omitempty"`
	EpicNo     string `bson:"EPIC_NO,omitempty" json:"EPIC_NO,omitempty"`
	DOB        string `bson:"DOB,omitempty" json:"DOB,omitempty"`

	// Decomposed names, English and vernacular
	FMNameEn   string `bson:"FM_NAME_EN,omitempty" json:"FM_NAME_EN,omitempty"`
	MNNameEn   string `bson:"MN_NAME_EN,omitempty" json:"MN_NAME_EN,omitempty"`
	LastNameEn string `bson:"LASTNAME_EN,omitempty" json:"LASTNAME_EN,omitempty"`
	FMNameV1   string `bson:"FM_NAME_V1,omitempty" json:"FM_NAME_V1,omitempty"`
	LastNameV1 string `bson:"LASTNAME_V1,omitempty" json:"LASTNAME_V1,omitempty"`

	// Relation (father/husband/...) names
	RlnType   string `bson:"RLN_TYPE,omitempty" json:"RLN_TYPE,omitempty"`
	RlnFMNmEn string `bson:"RLN_FM_NM_EN,omitempty" json:"RLN_FM_NM_EN,omitempty"`
	RlnLNmEn  string `bson:"RLN_L_NM_EN,omitempty" json:"RLN_L_NM_EN,omitempty"`
	RlnFMNmV1 string `bson:"RLN_FM_NM_V1,omitempty" json:"RLN_FM_NM_V1,omitempty"`
	RlnLNmV1  string `bson:"RLN_L_NM_V1,omitempty" json:"RLN_L_NM_V1,omitempty"`

	// Address
	CHouseNo           string `bson:"C_HOUSE_NO,omitempty" json:"C_HOUSE_NO,omitempty"`
	CHouseNoV1         string `bson:"C_HOUSE_NO_V1,omitempty" json:"C_HOUSE_NO_V1,omitempty"`
	Adr1               string `bson:"adr1,omitempty" json:"adr1,omitempty"`
	Adr2               string `bson:"adr2,omitempty" json:"adr2,omitempty"`
	PollingStationAdr1 string `bson:"POLLING_STATION_ADR1,omitempty" json:"POLLING_STATION_ADR1,omitempty"`
	PollingStationAdr2 string `bson:"POLLING_STATION_ADR2,omitempty" json:"POLLING_STATION_ADR2,omitempty"`
	PP                 string `bson:"pp,omitempty" json:"pp,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
