package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voterdata-service/internal/domain/entity"
	"voterdata-service/pkg/logger"
	"voterdata-service/pkg/spreadsheet"
)

func testRow(index int, cells map[string]string) spreadsheet.Row {
	return spreadsheet.Row{Index: index, Cells: cells}
}

func TestMapRow_LegacyAndPDFHeaders(t *testing.T) {
	m := NewFieldMapper(logger.NewLogger())

	record, failure := m.MapRow(testRow(1, map[string]string{
		"name":       "Jane Doe",
		"EPIC_NO":    "ABC123",
		"Sr No.":     "12",
		"Mobile No":  "9822012345",
		"AC_NO":      "145",
		"PART_NO":    "23",
		"FM_NAME_V1": "जानकी",
	}))
	require.Nil(t, failure)
	require.NotNil(t, record)

	assert.Equal(t, "Jane Doe", record.Name)
	assert.Equal(t, "ABC123", record.EpicNo)
	assert.Equal(t, "12", record.SerialNumber)
	assert.Equal(t, "9822012345", record.MobileNumber)
	assert.Equal(t, "145", record.ACNo)
	assert.Equal(t, "23", record.PartNo)
	// vernacular content passes through untouched
	assert.Equal(t, "जानकी", record.FMNameV1)
}

func TestMapRow_MissingNameFailsRow(t *testing.T) {
	m := NewFieldMapper(logger.NewLogger())

	record, failure := m.MapRow(testRow(4, map[string]string{
		"EPIC_NO": "XYZ789",
		"age":     "30",
	}))
	assert.Nil(t, record)
	require.NotNil(t, failure)
	assert.Equal(t, 4, failure.Row)
	assert.Equal(t, entity.ReasonMissingName, failure.Reason)
}

func TestMapRow_PlaceholderValuesAreAbsent(t *testing.T) {
	m := NewFieldMapper(logger.NewLogger())

	record, failure := m.MapRow(testRow(1, map[string]string{
		"name":         "Jane Doe",
		"mobileNumber": "-",
		"houseNumber":  "NA",
		"gender":       "   ",
		"voterIdCard":  "N/A",
	}))
	require.Nil(t, failure)

	assert.Empty(t, record.MobileNumber)
	assert.Empty(t, record.HouseNumber)
	assert.Empty(t, record.Gender)
	assert.Empty(t, record.VoterIDCard)
}

func TestMapRow_PlaceholderNameFailsRow(t *testing.T) {
	m := NewFieldMapper(logger.NewLogger())

	_, failure := m.MapRow(testRow(2, map[string]string{"name": "  -  "}))
	require.NotNil(t, failure)
	assert.Equal(t, entity.ReasonMissingName, failure.Reason)
}

func TestMapRow_AgeCoercion(t *testing.T) {
	m := NewFieldMapper(logger.NewLogger())

	cases := []struct {
		value string
		want  *int
	}{
		{"42", intPtr(42)},
		{"42.0", intPtr(42)},
		{"unknown", nil},
		{"-3", nil},
		{"42.7", nil},
	}
	for _, tc := range cases {
		record, failure := m.MapRow(testRow(1, map[string]string{
			"name": "Jane Doe",
			"age":  tc.value,
		}))
		// malformed optional data never fails the row
		require.Nil(t, failure, "age=%q", tc.value)
		if tc.want == nil {
			assert.Nil(t, record.Age, "age=%q", tc.value)
		} else {
			require.NotNil(t, record.Age, "age=%q", tc.value)
			assert.Equal(t, *tc.want, *record.Age)
		}
	}
}

func TestMapRow_UnknownHeadersIgnored(t *testing.T) {
	m := NewFieldMapper(logger.NewLogger())

	record, failure := m.MapRow(testRow(1, map[string]string{
		"name":            "Jane Doe",
		"SOME_NEW_COLUMN": "whatever",
		"booth_color":     "green",
	}))
	require.Nil(t, failure)
	assert.Equal(t, "Jane Doe", record.Name)
}

func TestMapRow_HeaderSpellingVariants(t *testing.T) {
	m := NewFieldMapper(logger.NewLogger())

	variants := []string{"Serial Number", "SR_NO", "sr no."}
	for _, header := range variants {
		record, failure := m.MapRow(testRow(1, map[string]string{
			"name": "Jane Doe",
			header: "99",
		}))
		require.Nil(t, failure)
		assert.Equal(t, "99", record.SerialNumber, "header=%q", header)
	}
}

func intPtr(v int) *int { return &v }
