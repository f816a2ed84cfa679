package brc20

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidContentType(t *testing.T) {
	tests := []struct {
		contentType string
		valid       bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"text/plain", true},
		{"text/plain;charset=utf-8", true},
		{"text/html", false},
		{"image/png", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidContentType(tt.contentType))
		})
	}
}

func TestParsePayloadDeploy(t *testing.T) {
	payload, err := ParsePayload([]byte(`{"p":"brc-20","op":"deploy","tick":"PEPE","max":"21000000","lim":"1000","dec":"8"}`), "application/json")
	require.NoError(t, err)
	assert.Equal(t, OperationDeploy, payload.Op)
	assert.Equal(t, "pepe", payload.Tick)
	assert.Equal(t, "PEPE", payload.OriginalTick)
	assert.True(t, payload.Max.Equal(decimal.NewFromInt(21000000)))
	assert.True(t, payload.Lim.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, uint16(8), payload.Dec)
}

func TestParsePayloadDeployDefaults(t *testing.T) {
	payload, err := ParsePayload([]byte(`{"p":"brc-20","op":"deploy","tick":"ordi","max":"2500"}`), "text/plain;charset=utf-8")
	require.NoError(t, err)
	// lim defaults to max, dec defaults to 18
	assert.True(t, payload.Lim.Equal(payload.Max))
	assert.Equal(t, uint16(18), payload.Dec)
}

func TestParsePayloadMint(t *testing.T) {
	payload, err := ParsePayload([]byte(`{"p":"brc-20","op":"mint","tick":"ordi","amt":"250000.5"}`), "application/json")
	require.NoError(t, err)
	assert.Equal(t, OperationMint, payload.Op)
	assert.True(t, payload.Amt.Equal(decimal.RequireFromString("250000.5")))
}

func TestParsePayloadRejects(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		contentType string
	}{
		{
			name:        "wrong content type",
			content:     `{"p":"brc-20","op":"mint","tick":"ordi","amt":"1"}`,
			contentType: "text/html",
		},
		{
			name:        "not a json object",
			content:     `["p","brc-20"]`,
			contentType: "application/json",
		},
		{
			name:        "not json at all",
			content:     `hello world`,
			contentType: "text/plain",
		},
		{
			name:        "wrong protocol",
			content:     `{"p":"brc20","op":"mint","tick":"ordi","amt":"1"}`,
			contentType: "application/json",
		},
		{
			name:        "protocol wrong case",
			content:     `{"p":"BRC-20","op":"mint","tick":"ordi","amt":"1"}`,
			contentType: "application/json",
		},
		{
			name:        "unknown op",
			content:     `{"p":"brc-20","op":"burn","tick":"ordi","amt":"1"}`,
			contentType: "application/json",
		},
		{
			name:        "tick too short",
			content:     `{"p":"brc-20","op":"mint","tick":"abc","amt":"1"}`,
			contentType: "application/json",
		},
		{
			name:        "tick too long",
			content:     `{"p":"brc-20","op":"mint","tick":"abcde","amt":"1"}`,
			contentType: "application/json",
		},
		{
			name:        "amt as json number",
			content:     `{"p":"brc-20","op":"mint","tick":"ordi","amt":1000}`,
			contentType: "application/json",
		},
		{
			name:        "max as json number",
			content:     `{"p":"brc-20","op":"deploy","tick":"ordi","max":21000000}`,
			contentType: "application/json",
		},
		{
			name:        "amt missing",
			content:     `{"p":"brc-20","op":"mint","tick":"ordi"}`,
			contentType: "application/json",
		},
		{
			name:        "max missing",
			content:     `{"p":"brc-20","op":"deploy","tick":"ordi"}`,
			contentType: "application/json",
		},
		{
			name:        "negative amt",
			content:     `{"p":"brc-20","op":"mint","tick":"ordi","amt":"-5"}`,
			contentType: "application/json",
		},
		{
			name:        "amt with whitespace",
			content:     `{"p":"brc-20","op":"mint","tick":"ordi","amt":" 5"}`,
			contentType: "application/json",
		},
		{
			name:        "empty amt",
			content:     `{"p":"brc-20","op":"mint","tick":"ordi","amt":""}`,
			contentType: "application/json",
		},
		{
			name:        "zero amt",
			content:     `{"p":"brc-20","op":"mint","tick":"ordi","amt":"0"}`,
			contentType: "application/json",
		},
		{
			name:        "zero max",
			content:     `{"p":"brc-20","op":"deploy","tick":"ordi","max":"0"}`,
			contentType: "application/json",
		},
		{
			name:        "amt with trailing dot",
			content:     `{"p":"brc-20","op":"mint","tick":"ordi","amt":"5."}`,
			contentType: "application/json",
		},
		{
			name:        "amt in scientific notation",
			content:     `{"p":"brc-20","op":"mint","tick":"ordi","amt":"1e5"}`,
			contentType: "application/json",
		},
		{
			name:        "mantissa overflow",
			content:     `{"p":"brc-20","op":"mint","tick":"ordi","amt":"18446744073709551616"}`,
			contentType: "application/json",
		},
		{
			name:        "fractional mantissa overflow",
			content:     `{"p":"brc-20","op":"mint","tick":"ordi","amt":"1844674407370955161.6"}`,
			contentType: "application/json",
		},
		{
			name:        "dec above 18",
			content:     `{"p":"brc-20","op":"deploy","tick":"ordi","max":"100","dec":"19"}`,
			contentType: "application/json",
		},
		{
			name:        "dec not an integer",
			content:     `{"p":"brc-20","op":"deploy","tick":"ordi","max":"100","dec":"1.5"}`,
			contentType: "application/json",
		},
		{
			name:        "dec as json number",
			content:     `{"p":"brc-20","op":"deploy","tick":"ordi","max":"100","dec":8}`,
			contentType: "application/json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayload([]byte(tt.content), tt.contentType)
			assert.Error(t, err)
		})
	}
}

func TestParsePayloadAccepts(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "zero dec",
			content: `{"p":"brc-20","op":"deploy","tick":"ordi","max":"100","dec":"0"}`,
		},
		{
			name:    "max mantissa",
			content: `{"p":"brc-20","op":"mint","tick":"ordi","amt":"18446744073709551615"}`,
		},
		{
			name:    "extra properties ignored",
			content: `{"p":"brc-20","op":"mint","tick":"ordi","amt":"1","foo":"bar","baz":42}`,
		},
		{
			name:    "unicode tick of 4 bytes",
			content: `{"p":"brc-20","op":"mint","tick":"ab¢","amt":"1"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayload([]byte(tt.content), "application/json")
			assert.NoError(t, err)
		})
	}
}

func TestAmountWithinDecimals(t *testing.T) {
	assert.True(t, AmountWithinDecimals(decimal.RequireFromString("1.23"), 2))
	assert.True(t, AmountWithinDecimals(decimal.RequireFromString("1.23"), 3))
	assert.False(t, AmountWithinDecimals(decimal.RequireFromString("1.234"), 2))
	assert.True(t, AmountWithinDecimals(decimal.NewFromInt(5), 0))
	assert.False(t, AmountWithinDecimals(decimal.RequireFromString("5.1"), 0))
}
