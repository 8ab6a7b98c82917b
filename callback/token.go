// Package callback implements the inline button protocol: the colon-delimited
// action tokens carried in callback data and the per-session registry that maps
// short choice ids back to display values.
package callback

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"QuizBot/model"
)

// MaxTokenLen is the Telegram limit for inline button callback data, in bytes.
const MaxTokenLen = 64

const (
	delimiter  = ':'
	escapeChar = '\\'
	dateLayout = "2006-01-02"
)

// Kind is the leading segment of a token.
type Kind string

const (
	KindDate            Kind = "date"
	KindSelectOrganizer Kind = "select_organizer"
	KindOrganizerDate   Kind = "select_org_date"
	KindSelectLocation  Kind = "select_location_id"
	KindLocationDate    Kind = "select_loc_date_id"
	KindSelectCategory  Kind = "select_category_id"
	KindCategoryDate    Kind = "select_cat_date_id"
)

var ErrTokenTooLong = errors.New("token exceeds callback data limit")

// DecodeError reports a token that could not be read.
type DecodeError struct {
	Token  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode token %q: %s", e.Token, e.Reason)
}

type kindSpec struct {
	dimension model.Dimension
	stage     model.Stage
	choice    bool
	date      bool
}

func (s kindSpec) segments() int {
	n := 0
	if s.choice {
		n++
	}
	if s.date {
		n++
	}
	return n
}

var kinds = map[Kind]kindSpec{
	KindDate:            {dimension: model.DimensionNone, stage: model.StageIdle, date: true},
	KindSelectOrganizer: {dimension: model.DimensionOrganizer, stage: model.StageAwaitingChoice, choice: true},
	KindOrganizerDate:   {dimension: model.DimensionOrganizer, stage: model.StageAwaitingDate, choice: true, date: true},
	KindSelectLocation:  {dimension: model.DimensionVenue, stage: model.StageAwaitingChoice, choice: true},
	KindLocationDate:    {dimension: model.DimensionVenue, stage: model.StageAwaitingDate, choice: true, date: true},
	KindSelectCategory:  {dimension: model.DimensionCategory, stage: model.StageAwaitingChoice, choice: true},
	KindCategoryDate:    {dimension: model.DimensionCategory, stage: model.StageAwaitingDate, choice: true, date: true},
}

// ChoiceKind returns the kind used for choice buttons of d.
func ChoiceKind(d model.Dimension) Kind {
	switch d {
	case model.DimensionOrganizer:
		return KindSelectOrganizer
	case model.DimensionVenue:
		return KindSelectLocation
	case model.DimensionCategory:
		return KindSelectCategory
	}
	return ""
}

// DateKind returns the kind used for date buttons following a choice of d.
func DateKind(d model.Dimension) Kind {
	switch d {
	case model.DimensionOrganizer:
		return KindOrganizerDate
	case model.DimensionVenue:
		return KindLocationDate
	case model.DimensionCategory:
		return KindCategoryDate
	}
	return ""
}

// Escape backslash-escapes the delimiter and the escape character itself, so
// Unescape(Escape(s)) == s for every s.
func Escape(s string) string {
	if !strings.ContainsAny(s, `:\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		if s[i] == delimiter || s[i] == escapeChar {
			b.WriteByte(escapeChar)
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Unescape reverses Escape. A trailing lone escape character is kept as is.
func Unescape(s string) string {
	if !strings.ContainsRune(s, escapeChar) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == escapeChar && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// split cuts s on delimiters that are not escaped. Segments stay escaped.
func split(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case escapeChar:
			i++
		case delimiter:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// Encode joins kind and the escaped parts into a token.
func Encode(kind Kind, parts ...string) (string, error) {
	spec, ok := kinds[kind]
	if !ok {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}
	if len(parts) != spec.segments() {
		return "", fmt.Errorf("token kind %q takes %d parts, got %d", kind, spec.segments(), len(parts))
	}

	var b strings.Builder
	b.WriteString(string(kind))
	for _, p := range parts {
		b.WriteByte(delimiter)
		b.WriteString(Escape(p))
	}
	if b.Len() > MaxTokenLen {
		return "", fmt.Errorf("%w: %d bytes", ErrTokenTooLong, b.Len())
	}
	return b.String(), nil
}

// Decode splits a token into its kind and unescaped parts. It checks the
// segment count for the kind and, for kinds that carry one, the date suffix.
func Decode(token string) (Kind, []string, error) {
	segments := split(token)
	kind := Kind(segments[0])
	spec, ok := kinds[kind]
	if !ok {
		return "", nil, &DecodeError{Token: token, Reason: "unknown kind"}
	}

	parts := segments[1:]
	if len(parts) != spec.segments() {
		return "", nil, &DecodeError{
			Token:  token,
			Reason: fmt.Sprintf("expected %d segments, got %d", spec.segments(), len(parts)),
		}
	}
	for i, p := range parts {
		parts[i] = Unescape(p)
	}
	if spec.choice && parts[0] == "" {
		return "", nil, &DecodeError{Token: token, Reason: "empty choice"}
	}
	if spec.date {
		if _, err := time.Parse(dateLayout, parts[len(parts)-1]); err != nil {
			return "", nil, &DecodeError{Token: token, Reason: "bad date"}
		}
	}
	return kind, parts, nil
}

// Action is a decoded token together with the dialogue position it is valid in.
type Action struct {
	Kind      Kind
	Dimension model.Dimension
	Stage     model.Stage
	ChoiceID  string
	Date      time.Time
}

// HasDate reports whether the action carries a date.
func (a Action) HasDate() bool { return kinds[a.Kind].date }

// Parse decodes token into an Action.
func Parse(token string) (Action, error) {
	kind, parts, err := Decode(token)
	if err != nil {
		return Action{}, err
	}
	spec := kinds[kind]

	a := Action{Kind: kind, Dimension: spec.dimension, Stage: spec.stage}
	if spec.choice {
		a.ChoiceID = parts[0]
	}
	if spec.date {
		// Decode already validated the layout.
		a.Date, _ = time.Parse(dateLayout, parts[len(parts)-1])
	}
	return a, nil
}

// DateToken builds the token for a button of the unfiltered date list.
func DateToken(date time.Time) (string, error) {
	return Encode(KindDate, date.Format(dateLayout))
}

// ChoiceToken builds the token for a choice button of d.
func ChoiceToken(d model.Dimension, choiceID string) (string, error) {
	return Encode(ChoiceKind(d), choiceID)
}

// ChoiceDateToken builds the token for a date button after choiceID of d was picked.
func ChoiceDateToken(d model.Dimension, choiceID string, date time.Time) (string, error) {
	return Encode(DateKind(d), choiceID, date.Format(dateLayout))
}
