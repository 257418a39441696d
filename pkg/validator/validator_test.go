package validator

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createReq struct {
	ISBN          string  `json:"ISBN" validate:"required,isbn"`
	Title         string  `json:"title" validate:"required"`
	PublishedDate string  `json:"publishedDate" validate:"required,isodate"`
	Summary       string  `json:"summary" validate:"required,min=10"`
	Author        *string `json:"author" validate:"omitempty,min=1"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestISODate(t *testing.T) {
	v := newValidate()
	valid := []string{"2024-01-01", "2024-02-29", "2024-01-01T10:00:00Z", "2024-01-01T10:00:00+08:00"}
	for _, s := range valid {
		assert.NoError(t, v.Var(s, "isodate"), s)
	}
	invalid := []string{"", "2024-13-01", "2023-02-29", "01/02/2024", "yesterday"}
	for _, s := range invalid {
		assert.Error(t, v.Var(s, "isodate"), s)
	}
}

func TestParseISODate(t *testing.T) {
	d, err := ParseISODate("2024-01-01T23:30:00-02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseISODate("2009-07-31")
	require.NoError(t, err)
	assert.Equal(t, "2009-07-31", d.Format(DateLayout))

	_, err = ParseISODate("31.07.2009")
	assert.Error(t, err)
}

func TestTranslate(t *testing.T) {
	v := newValidate()
	short := "x"
	err := v.Struct(createReq{ISBN: "123", PublishedDate: "bad", Summary: "short", Author: &short})
	require.Error(t, err)

	msg := Translate(err)
	assert.Contains(t, msg, "ISBN must be an ISBN")
	assert.Contains(t, msg, "title should not be empty")
	assert.Contains(t, msg, "publishedDate must be a valid ISO 8601 date string")
	assert.Contains(t, msg, "summary must be longer than or equal to 10 characters")
	assert.NotContains(t, msg, "author")
}

func TestValidRequest(t *testing.T) {
	v := newValidate()
	err := v.Struct(createReq{
		ISBN:          "978-3-16-148410-0",
		Title:         "Test Book",
		PublishedDate: "2024-01-01",
		Summary:       "Test Summary",
	})
	assert.NoError(t, err)
}

func TestSetup(t *testing.T) {
	assert.NotPanics(t, func() {
		Setup()
		Setup()
	})
}
