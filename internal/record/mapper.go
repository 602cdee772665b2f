// Package record converts untyped documents from the document store and the
// trails API into Trail and Person values and back.
//
// Decoding fails closed: a required field that is missing or has the wrong
// shape yields an error wrapping apperr.ErrMalformedRecord. Optional fields
// that are missing decode to "".
package record

import (
	"encoding/json"
	"strconv"
	"strings"

	"backend-trailblazer/internal/apperr"
)

func EncodeTrail(t Trail) Record {
	return Record{
		"id":        t.ID,
		"name":      t.Name,
		"desc":      t.Description,
		"diff":      t.Difficulty,
		"rating":    t.Rating,
		"thumbnail": t.ThumbnailURL,
		"length":    strconv.FormatFloat(t.LengthKm, 'f', -1, 64),
		"lat":       t.Lat,
		"lng":       t.Lng,
	}
}

// DecodeTrail decodes a favorite trail as written by EncodeTrail.
func DecodeTrail(r Record) (Trail, error) {
	var (
		t   Trail
		err error
	)
	if t.ID, err = required(r, "id"); err != nil {
		return Trail{}, err
	}
	if t.Name, err = required(r, "name"); err != nil {
		return Trail{}, err
	}
	if t.Description, err = optional(r, "desc"); err != nil {
		return Trail{}, err
	}
	if t.Difficulty, err = optional(r, "diff"); err != nil {
		return Trail{}, err
	}
	if t.Rating, err = optional(r, "rating"); err != nil {
		return Trail{}, err
	}
	if t.ThumbnailURL, err = optional(r, "thumbnail"); err != nil {
		return Trail{}, err
	}
	if t.Lat, err = optional(r, "lat"); err != nil {
		return Trail{}, err
	}
	if t.Lng, err = optional(r, "lng"); err != nil {
		return Trail{}, err
	}
	if v, ok := r["length"]; ok && v != nil && v != "" {
		if t.LengthKm, err = NormalizeLength(v); err != nil {
			return Trail{}, err
		}
	}
	return t, nil
}

// DecodeUpstreamTrail decodes one entry of the trails API "data" array. The
// upstream sends length either as a number or as a numeric string.
func DecodeUpstreamTrail(r Record) (Trail, error) {
	var (
		t   Trail
		err error
	)

	id, ok := coerceString(r["id"])
	if !ok || id == "" {
		return Trail{}, apperr.Malformed("missing field %q", "id")
	}
	t.ID = id

	if t.Name, err = required(r, "name"); err != nil {
		return Trail{}, err
	}
	if t.Description, err = optional(r, "description"); err != nil {
		return Trail{}, err
	}
	if t.Difficulty, err = optional(r, "difficulty"); err != nil {
		return Trail{}, err
	}

	t.Rating = PlaceholderRating
	if v, ok := r["rating"]; ok && v != nil {
		rating, ok := coerceString(v)
		if !ok {
			return Trail{}, apperr.Malformed("field %q has unexpected type %T", "rating", v)
		}
		t.Rating = rating
	}

	t.ThumbnailURL = PlaceholderThumbnail
	if v, ok := r["thumbnail"].(string); ok && v != "" {
		t.ThumbnailURL = v
	}

	v, ok := r["length"]
	if !ok {
		return Trail{}, apperr.Malformed("missing field %q", "length")
	}
	if t.LengthKm, err = NormalizeLength(v); err != nil {
		return Trail{}, err
	}

	t.Lat, _ = coerceString(r["lat"])
	t.Lng, _ = coerceString(r["lon"])
	return t, nil
}

// NormalizeLength coerces a length sent as a number or a numeric string.
func NormalizeLength(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, apperr.Malformed("field %q is not numeric: %q", "length", n.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, apperr.Malformed("field %q is not numeric: %q", "length", n)
		}
		return f, nil
	}
	return 0, apperr.Malformed("field %q has unexpected type %T", "length", v)
}

func EncodePerson(p Person) Record {
	return Record{
		"firstName": p.FirstName,
		"lastName":  p.LastName,
		"age":       p.Age,
		"email":     p.Email,
		"imageRef":  p.ImageRef,
		"imageURL":  p.ImageURL,
	}
}

// DecodePerson decodes a profile document; id is the document id, which is
// the owner's auth subject.
func DecodePerson(id string, r Record) (Person, error) {
	p := Person{ID: id}
	var err error
	if p.FirstName, err = required(r, "firstName"); err != nil {
		return Person{}, err
	}
	if p.LastName, err = required(r, "lastName"); err != nil {
		return Person{}, err
	}
	if p.Age, err = required(r, "age"); err != nil {
		return Person{}, err
	}
	if p.Email, err = required(r, "email"); err != nil {
		return Person{}, err
	}
	if p.ImageRef, err = optional(r, "imageRef"); err != nil {
		return Person{}, err
	}
	if p.ImageURL, err = optional(r, "imageURL"); err != nil {
		return Person{}, err
	}
	return p, nil
}

func required(r Record, key string) (string, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", apperr.Malformed("missing field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", apperr.Malformed("field %q has unexpected type %T", key, v)
	}
	if s == "" {
		return "", apperr.Malformed("field %q is empty", key)
	}
	return s, nil
}

func optional(r Record, key string) (string, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", apperr.Malformed("field %q has unexpected type %T", key, v)
	}
	return s, nil
}

func coerceString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	}
	return "", false
}
