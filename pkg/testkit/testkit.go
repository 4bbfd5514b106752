// Package testkit holds helpers shared by package tests: an in-memory
// database with the schema applied, request builders and response decoding.
package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/devburger/database/migrations"
	"github.com/shashiranjanraj/devburger/pkg/database"
	"github.com/shashiranjanraj/devburger/pkg/migration"
	"github.com/shashiranjanraj/devburger/pkg/response"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory SQLite database and runs every migration.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testkit_%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.New(db, io.Discard).Run())
	return db
}

// PNG returns an encoded w×h image.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// File is an upload for Multipart.
type File struct {
	Field    string
	Name     string
	Contents []byte
}

// Multipart builds a multipart/form-data request.
func Multipart(t *testing.T, method, target string, fields map[string]string, files ...File) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.Field, f.Name)
		require.NoError(t, err)
		_, err = fw.Write(f.Contents)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// JSON builds a request with body encoded as JSON. A string body is sent
// verbatim.
func JSON(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// Bearer sets the Authorization header.
func Bearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// Decode reads the response envelope.
func Decode(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}

// Data decodes the envelope's data field into dest.
func Data(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, dest), "data: %s", string(env.Data))
}

// AssertJSONEqual compares two JSON documents ignoring key order and
// whitespace.
func AssertJSONEqual(t *testing.T, expected, actual []byte) {
	t.Helper()
	var exp, act any
	require.NoError(t, json.Unmarshal(expected, &exp), "expected is not valid JSON")
	if !assert.NoError(t, json.Unmarshal(actual, &act), "actual is not valid JSON\nbody: %s", string(actual)) {
		return
	}
	assert.Equal(t, exp, act)
}
