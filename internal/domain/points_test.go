package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryForCertificate(t *testing.T) {
	assert.Equal(t, CategoryInternal, CategoryForCertificate(CertInternal))
	assert.Equal(t, CategoryExternal, CategoryForCertificate(CertExternal))
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Jan 2026", MonthLabel(2026, 1))
	assert.Equal(t, "Sep 2025", MonthLabel(2025, 9))
	assert.Equal(t, "Dec 2024", MonthLabel(2024, 12))
}

func TestPointsFilter_Validate(t *testing.T) {
	year := 2026
	month := 4
	badMonth := 13

	assert.NoError(t, (&PointsFilter{}).Validate())
	assert.NoError(t, (&PointsFilter{Year: &year}).Validate())
	assert.NoError(t, (&PointsFilter{Year: &year, Month: &month}).Validate())

	err := (&PointsFilter{Year: &year, Month: &badMonth}).Validate()
	require.Error(t, err)

	// A month without a year is ambiguous.
	err = (&PointsFilter{Month: &month}).Validate()
	require.Error(t, err)
}

func TestPageTokenRoundTrip(t *testing.T) {
	assert.Equal(t, "", EncodePageToken(0))

	token := EncodePageToken(200)
	require.NotEmpty(t, token)
	assert.Equal(t, 200, PageRequest{PageToken: token}.Offset())

	// Garbage tokens fall back to the first page.
	assert.Equal(t, 0, PageRequest{PageToken: "not-base64!"}.Offset())
}

func TestNextPageToken(t *testing.T) {
	assert.Empty(t, NextPageToken(0, 100, 50))
	assert.Empty(t, NextPageToken(0, 100, 100))
	assert.NotEmpty(t, NextPageToken(0, 100, 101))
}
