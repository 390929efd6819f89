package schema

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text decodes any JSON scalar into a string. Null, objects and arrays become "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")), b[0] == '{', b[0] == '[':
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		*t = Text(b)
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Trim returns the value without surrounding whitespace.
func (t Text) Trim() string {
	return strings.TrimSpace(string(t))
}

// Number accepts JSON numbers and numeric strings. Anything else is zero.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(v)
	return nil
}

// Items is a list that tolerates a non-array value (decoded as empty) and
// elements of the wrong shape (decoded as the zero element).
type Items[T any] []T

func (s *Items[T]) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		*s = nil
		return nil
	}
	out := make(Items[T], len(raw))
	for i, r := range raw {
		if err := json.Unmarshal(r, &out[i]); err != nil {
			var zero T
			out[i] = zero
		}
	}
	*s = out
	return nil
}

// decodeObject fills v only when b is a JSON object. Field level type errors
// are dropped, the rest of the object still decodes.
func decodeObject(b []byte, v any) error {
	t := bytes.TrimSpace(b)
	if len(t) == 0 || t[0] != '{' {
		return nil
	}
	_ = json.Unmarshal(t, v)
	return nil
}

// Location is either a plain string or an {address, postcode, city} object.
type Location struct {
	Plain      string `json:"-"`
	Address    Text   `json:"address"`
	Postcode   Text   `json:"postcode"`
	PostalCode Text   `json:"postal_code"`
	City       Text   `json:"city"`
}

func (l *Location) UnmarshalJSON(b []byte) error {
	t := bytes.TrimSpace(b)
	if len(t) > 0 && t[0] == '"' {
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return err
		}
		*l = Location{Plain: s}
		return nil
	}
	type plain Location
	return decodeObject(b, (*plain)(l))
}

// Flatten returns a single address line plus postcode and city. The address
// falls back to the city when only a city is known.
func (l Location) Flatten() (address, postcode, city string) {
	if p := strings.TrimSpace(l.Plain); p != "" {
		return p, "", ""
	}
	city = l.City.Trim()
	address = l.Address.Trim()
	if address == "" {
		address = city
	}
	postcode = l.Postcode.Trim()
	if postcode == "" {
		postcode = l.PostalCode.Trim()
	}
	return address, postcode, city
}

// Award is either a bare string or an object.
type Award struct {
	Name        Text `json:"name"`
	Title       Text `json:"title"`
	Issuer      Text `json:"issuer"`
	Year        Text `json:"year"`
	Description Text `json:"description"`
	Plain       bool `json:"-"`
}

func (a *Award) UnmarshalJSON(b []byte) error {
	t := bytes.TrimSpace(b)
	if len(t) > 0 && t[0] == '"' {
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return err
		}
		*a = Award{Name: Text(s), Plain: true}
		return nil
	}
	type plain Award
	return decodeObject(b, (*plain)(a))
}

type Certification struct {
	Name       Text `json:"name"`
	Issuer     Text `json:"issuer"`
	Date       Text `json:"date"`
	Year       Text `json:"year"`
	ExpiryDate Text `json:"expiryDate"`
}

func (c *Certification) UnmarshalJSON(b []byte) error {
	type plain Certification
	return decodeObject(b, (*plain)(c))
}

type Language struct {
	Language    Text `json:"language"`
	Proficiency Text `json:"proficiency"`
}

func (l *Language) UnmarshalJSON(b []byte) error {
	type plain Language
	return decodeObject(b, (*plain)(l))
}

// Project holds the fields of both extraction shapes.
type Project struct {
	Name         Text        `json:"name"`
	Role         Text        `json:"role"`
	Organization Text        `json:"organization"`
	StartDate    Text        `json:"start_date"`
	EndDate      Text        `json:"end_date"`
	Description  Text        `json:"description"`
	Duration     Text        `json:"duration"`
	Link         Text        `json:"link"`
	Highlights   Items[Text] `json:"highlights"`
	TechStack    Items[Text] `json:"tech_stack"`
	Technologies Items[Text] `json:"technologies"`
}

func (p *Project) UnmarshalJSON(b []byte) error {
	type plain Project
	return decodeObject(b, (*plain)(p))
}
