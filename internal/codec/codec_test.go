// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-doc-vault/internal/codec"
	"github.com/MKhiriev/go-doc-vault/models"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		table string
		id    string
	}{
		{name: "plain", table: "expenses", id: "lunch"},
		{name: "id with separator", table: "expenses", id: "lunch_monday"},
		{name: "empty id", table: "expenses", id: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fullID := codec.Encode(tt.table, tt.id)

			table, id, ok := codec.Decode(fullID)
			require.True(t, ok)
			assert.Equal(t, tt.table, table)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestDecode_NoSeparator(t *testing.T) {
	_, _, ok := codec.Decode("plainid")
	assert.False(t, ok)
}

func TestEncode_ConcreteFormat(t *testing.T) {
	assert.Equal(t, "expenses_lunch", codec.Encode("expenses", "lunch"))
}

func TestIsSystem(t *testing.T) {
	assert.True(t, codec.IsSystem("_local/sync-abc"))
	assert.True(t, codec.IsSystem("_design/idx"))
	assert.False(t, codec.IsSystem("expenses_lunch"))
}

func TestValidTable(t *testing.T) {
	assert.True(t, codec.ValidTable("expenses"))
	assert.False(t, codec.ValidTable("my_table"))
	assert.False(t, codec.ValidTable(""))
}

func TestPartition(t *testing.T) {
	doc := models.Document{
		"_id":    "x",
		"_owner": "alice",
		"amount": 15,
		"secret": "y",
	}

	meta, user := codec.Partition(doc)

	assert.Equal(t, map[string]any{"_id": "x", "_owner": "alice"}, meta)
	assert.Equal(t, map[string]any{"amount": 15, "secret": "y"}, user)
}

func TestReassemble(t *testing.T) {
	meta := map[string]any{
		"_id":    "expenses_lunch",
		"_owner": "alice",
		"d":      "aa|bb",
	}

	doc, err := codec.Reassemble(meta, `{"amount":15,"secret":"y"}`, "lunch", "1-abc")
	require.NoError(t, err)

	assert.Equal(t, models.Document{
		"_id":    "lunch",
		"_rev":   "1-abc",
		"_owner": "alice",
		"amount": float64(15),
		"secret": "y",
	}, doc)
	assert.NotContains(t, doc, "d")
}

func TestReassemble_EmptyPayload(t *testing.T) {
	doc, err := codec.Reassemble(map[string]any{"_deleted": true}, "", "x", "")
	require.NoError(t, err)

	assert.Equal(t, "x", doc.ID())
	assert.Empty(t, doc.Rev())
}

func TestReassemble_BadPayload(t *testing.T) {
	_, err := codec.Reassemble(nil, "{not json", "x", "1-a")
	require.Error(t, err)
}
