package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestDecodeExternalOptionsNil(t *testing.T) {
	opts := DecodeExternalOptions(nil)
	assert.Empty(t, opts.Fields())
	assert.Equal(t, "ImageView", opts.ViewType())
	assert.Nil(t, opts.CanvasID())
	assert.Equal(t, "false", opts.DashboardHidden())
}

func TestExternalOptionsShortListDefaults(t *testing.T) {
	for _, raw := range []string{"", "ImageView"} {
		opts := DecodeExternalOptions(strPtr(raw))
		assert.Equal(t, "ImageView", opts.ViewType(), "raw=%q", raw)
		assert.Nil(t, opts.CanvasID(), "raw=%q", raw)
		assert.Equal(t, "false", opts.DashboardHidden(), "raw=%q", raw)
		assert.Equal(t, "false", opts.TranscriptHidden(), "raw=%q", raw)
		assert.Equal(t, "false", opts.TranscriptDownload(), "raw=%q", raw)
		assert.Equal(t, "false", opts.VideoDownload(), "raw=%q", raw)
	}
}

func TestExternalOptionsBlankFieldsDefault(t *testing.T) {
	opts := DecodeExternalOptions(strPtr(",,,,,"))
	assert.Equal(t, "ImageView", opts.ViewType())
	assert.Nil(t, opts.CanvasID())
	assert.Equal(t, "false", opts.DashboardHidden())
	assert.Equal(t, "false", opts.TranscriptHidden())
	assert.Equal(t, "false", opts.TranscriptDownload())
	assert.Equal(t, "false", opts.VideoDownload())
}

func TestExternalOptionsExplicitValues(t *testing.T) {
	opts := DecodeExternalOptions(strPtr("ScrollView,3123,true,yes,1,maybe"))
	assert.Equal(t, "ScrollView", opts.ViewType())
	require.NotNil(t, opts.CanvasID())
	assert.Equal(t, "3123", *opts.CanvasID())
	// Flag values pass through verbatim; interpretation is the caller's job.
	assert.Equal(t, "true", opts.DashboardHidden())
	assert.Equal(t, "yes", opts.TranscriptHidden())
	assert.Equal(t, "1", opts.TranscriptDownload())
	assert.Equal(t, "maybe", opts.VideoDownload())
}

func TestExternalOptionsTrailingFieldsMissing(t *testing.T) {
	opts := DecodeExternalOptions(strPtr("ImageView,5,true"))
	require.NotNil(t, opts.CanvasID())
	assert.Equal(t, "5", *opts.CanvasID())
	assert.Equal(t, "true", opts.DashboardHidden())
	assert.Equal(t, "false", opts.TranscriptHidden())
	assert.Equal(t, "false", opts.TranscriptDownload())
	assert.Equal(t, "false", opts.VideoDownload())
}
