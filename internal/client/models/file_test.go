package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		require.Equal(t, k, got)
	}

	_, err := ParseKind("spreadsheet")
	require.ErrorIs(t, err, ErrUnknownKind)

	_, err = ParseKind("all")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestVaultFile_WireFormat(t *testing.T) {
	f := VaultFile{
		ID:         "abc",
		Name:       "cat photo.jpg",
		Kind:       KindImage,
		Size:       2048,
		UploadDate: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		URI:        "/data/vault/cat_photo_abc.jpg",
		MimeType:   "image/jpeg",
	}

	b, err := json.Marshal(f)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"id": "abc",
		"name": "cat photo.jpg",
		"type": "image",
		"size": 2048,
		"uploadDate": "2024-03-01T10:30:00Z",
		"uri": "/data/vault/cat_photo_abc.jpg",
		"mimeType": "image/jpeg"
	}`, string(b))
}

func TestVaultFile_ReadsMillisecondISODates(t *testing.T) {
	var f VaultFile
	err := json.Unmarshal([]byte(`{"id":"x","name":"a","type":"other","size":1,
		"uploadDate":"2024-03-01T10:30:00.123Z","uri":"/v/a_x","mimeType":"application/zip"}`), &f)
	require.NoError(t, err)
	require.Equal(t, 123*time.Millisecond, time.Duration(f.UploadDate.Nanosecond()))
	require.NoError(t, f.Validate())
}

func TestVaultFile_Validate(t *testing.T) {
	ok := VaultFile{ID: "1", URI: "/v/1", Kind: KindAudio}
	require.NoError(t, ok.Validate())

	require.Error(t, VaultFile{URI: "/v/1", Kind: KindAudio}.Validate())
	require.Error(t, VaultFile{ID: "1", Kind: KindAudio}.Validate())
	require.ErrorIs(t, VaultFile{ID: "1", URI: "/v/1", Kind: "zip"}.Validate(), ErrUnknownKind)
}

func TestSessionRecord_JSON(t *testing.T) {
	var r SessionRecord
	require.NoError(t, json.Unmarshal([]byte(`{"credential":null,"isUnlocked":false,"isBootstrapped":true}`), &r))
	require.False(t, r.HasCredential())

	pin := "1234"
	b, err := json.Marshal(SessionRecord{Credential: &pin, IsUnlocked: true, IsBootstrapped: true})
	require.NoError(t, err)
	require.JSONEq(t, `{"credential":"1234","isUnlocked":true,"isBootstrapped":true}`, string(b))
}
