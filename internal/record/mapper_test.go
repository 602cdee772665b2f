package record

import (
	"encoding/json"
	"errors"
	"testing"

	"backend-trailblazer/internal/apperr"

	"github.com/stretchr/testify/require"
)

func TestTrailRoundTrip(t *testing.T) {
	trail := Trail{
		ID:           "42",
		Name:         "Hayden Butte",
		Description:  "Short climb with city views",
		Difficulty:   "Beginner",
		Rating:       "4.5",
		ThumbnailURL: "https://img.example/hayden.jpg",
		LengthKm:     3.5,
		Lat:          "33.43",
		Lng:          "-111.94",
	}

	decoded, err := DecodeTrail(EncodeTrail(trail))
	require.NoError(t, err)
	require.Equal(t, trail, decoded)
}

func TestPersonRoundTrip(t *testing.T) {
	person := Person{
		ID:        "uid-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Age:       "36",
		Email:     "ada@example.com",
		ImageRef:  "img.jpg",
		ImageURL:  "https://storage.example/img.jpg",
	}

	decoded, err := DecodePerson(person.ID, EncodePerson(person))
	require.NoError(t, err)
	require.Equal(t, person, decoded)
}

func TestDecodePersonMissingFirstName(t *testing.T) {
	r := EncodePerson(Person{FirstName: "Ada", LastName: "Lovelace", Age: "36", Email: "ada@example.com"})
	delete(r, "firstName")

	_, err := DecodePerson("uid-1", r)
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrMalformedRecord))
}

func TestDecodePersonMissingImageRef(t *testing.T) {
	r := Record{"firstName": "Ada", "lastName": "Lovelace", "age": "36", "email": "ada@example.com"}

	p, err := DecodePerson("uid-1", r)
	require.NoError(t, err)
	require.Equal(t, "", p.ImageRef)
	require.Equal(t, "", p.ImageURL)
}

func TestDecodePersonWrongType(t *testing.T) {
	r := Record{"firstName": "Ada", "lastName": "Lovelace", "age": 36, "email": "ada@example.com"}

	_, err := DecodePerson("uid-1", r)
	require.ErrorIs(t, err, apperr.ErrMalformedRecord)
}

func TestDecodeTrailMissingName(t *testing.T) {
	_, err := DecodeTrail(Record{"id": "1"})
	require.ErrorIs(t, err, apperr.ErrMalformedRecord)
}

func TestDecodeTrailOptionalFieldsDefaultEmpty(t *testing.T) {
	trail, err := DecodeTrail(Record{"id": "1", "name": "Loop"})
	require.NoError(t, err)
	require.Equal(t, Trail{ID: "1", Name: "Loop"}, trail)
}

func TestNormalizeLength(t *testing.T) {
	fromString, err := NormalizeLength("3.5")
	require.NoError(t, err)
	fromFloat, err := NormalizeLength(3.5)
	require.NoError(t, err)
	fromNumber, err := NormalizeLength(json.Number("3.5"))
	require.NoError(t, err)

	require.Equal(t, 3.5, fromString)
	require.Equal(t, 3.5, fromFloat)
	require.Equal(t, 3.5, fromNumber)

	_, err = NormalizeLength("three")
	require.ErrorIs(t, err, apperr.ErrMalformedRecord)
	_, err = NormalizeLength(true)
	require.ErrorIs(t, err, apperr.ErrMalformedRecord)
}

func TestDecodeUpstreamTrail(t *testing.T) {
	trail, err := DecodeUpstreamTrail(Record{
		"id":          json.Number("7"),
		"name":        "Camelback",
		"url":         "https://trails.example/7",
		"description": "Steep",
		"difficulty":  "Advanced",
		"rating":      json.Number("4.8"),
		"thumbnail":   nil,
		"length":      "2.1",
		"lat":         "33.52",
		"lon":         "-111.97",
	})
	require.NoError(t, err)
	require.Equal(t, "7", trail.ID)
	require.Equal(t, "4.8", trail.Rating)
	require.Equal(t, PlaceholderThumbnail, trail.ThumbnailURL)
	require.Equal(t, 2.1, trail.LengthKm)
	require.Equal(t, "-111.97", trail.Lng)
}

func TestDecodeUpstreamTrailDefaults(t *testing.T) {
	trail, err := DecodeUpstreamTrail(Record{"id": 3.0, "name": "Loop", "length": 1.0})
	require.NoError(t, err)
	require.Equal(t, "3", trail.ID)
	require.Equal(t, PlaceholderRating, trail.Rating)
	require.Equal(t, PlaceholderThumbnail, trail.ThumbnailURL)
}

func TestDecodeUpstreamTrailBadLength(t *testing.T) {
	_, err := DecodeUpstreamTrail(Record{"id": "1", "name": "Loop", "length": "far"})
	require.ErrorIs(t, err, apperr.ErrMalformedRecord)

	_, err = DecodeUpstreamTrail(Record{"id": "1", "name": "Loop"})
	require.ErrorIs(t, err, apperr.ErrMalformedRecord)
}
