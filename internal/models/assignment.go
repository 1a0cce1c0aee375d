package models

import (
	"strconv"
	"strings"
	"time"
)

// Assignment owns a set of ordered annotation targets and carries the
// credentials for the annotation store acting as its backing collection.
// AssignmentID is globally unique and doubles as the store's collection key.
type Assignment struct {
	ID                int64     `db:"id" json:"id"`
	AssignmentID      string    `db:"assignment_id" json:"assignment_id"`
	Name              string    `db:"assignment_name" json:"assignment_name"`
	StoreURL          string    `db:"annotation_database_url" json:"annotation_database_url"`
	StoreAPIKey       string    `db:"annotation_database_apikey" json:"-"`
	StoreSecret       string    `db:"annotation_database_secret_token" json:"-"`
	PaginationLimit   int       `db:"pagination_limit" json:"pagination_limit"`
	HighlightsOptions string    `db:"highlights_options" json:"highlights_options"`
	IsPublished       bool      `db:"is_published" json:"is_published"`
	Hidden            bool      `db:"hidden" json:"hidden"`
	CourseID          *int64    `db:"course_id" json:"course_id,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// HighlightTag pairs a predetermined tag name with its rgba highlight color.
type HighlightTag struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// HighlightTags parses the stored highlights options ("name:color,...")
// into tag/color pairs. Entries missing a color contribute their text to
// the following tag's name, which is how multi-word tag names survive the
// comma split in legacy records.
func (a *Assignment) HighlightTags() []HighlightTag {
	if len(a.HighlightsOptions) == 0 {
		return nil
	}

	var result []HighlightTag
	var pendingName string
	for _, entry := range splitTagEntries(a.HighlightsOptions) {
		parts := strings.Split(entry, ":")
		if len(parts)%2 == 1 {
			parts = strings.Split(entry, ";")
		}
		if len(parts) < 2 {
			pendingName += parts[0] + " "
			continue
		}
		result = append(result, HighlightTag{
			Name:  pendingName + parts[0],
			Color: rgbaColor(parts[1]),
		})
		pendingName = ""
	}
	return result
}

// splitTagEntries splits the options string on commas, except commas
// inside an open rgb()/rgba() group, so color function arguments are not
// torn apart.
func splitTagEntries(options string) []string {
	var entries []string
	depth := 0
	start := 0
	for i, r := range options {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				entries = append(entries, options[start:i])
				start = i + 1
			}
		}
	}
	return append(entries, options[start:])
}

var namedColors = map[string]string{
	"acqua":   "#0ff",
	"teal":    "#008080",
	"blue":    "#00f",
	"navy":    "#000080",
	"yellow":  "#ff0",
	"olive":   "#808000",
	"lime":    "#0f0",
	"green":   "#008000",
	"fuchsia": "#f0f",
	"purple":  "#800080",
	"red":     "#f00",
	"maroon":  "#800000",
	"white":   "#fff",
	"gray":    "#808080",
	"silver":  "#c0c0c0",
	"black":   "#000",
}

// rgbaColor normalizes hex, rgb() and common named colors to an rgba()
// value at the highlight alpha used by the annotation client.
func rgbaColor(color string) string {
	switch {
	case strings.Contains(color, "#"):
		hex := color[strings.Index(color, "#")+1:]
		var r, g, b int64
		if len(hex) == 3 {
			r, _ = strconv.ParseInt(string(hex[0])+string(hex[0]), 16, 0)
			g, _ = strconv.ParseInt(string(hex[1])+string(hex[1]), 16, 0)
			b, _ = strconv.ParseInt(string(hex[2])+string(hex[2]), 16, 0)
		} else if len(hex) >= 6 {
			r, _ = strconv.ParseInt(hex[0:2], 16, 0)
			g, _ = strconv.ParseInt(hex[2:4], 16, 0)
			b, _ = strconv.ParseInt(hex[4:6], 16, 0)
		} else {
			return ""
		}
		return "rgba(" + strconv.FormatInt(r, 10) + "," + strconv.FormatInt(g, 10) + "," + strconv.FormatInt(b, 10) + ",0.3)"
	case strings.Contains(color, "rgba("):
		return color
	case strings.Contains(color, "rgb("):
		return strings.Replace(strings.Replace(color, "rgb(", "rgba(", 1), ")", ",0.3)", 1)
	default:
		if hex, ok := namedColors[color]; ok {
			return rgbaColor(hex)
		}
		return ""
	}
}
