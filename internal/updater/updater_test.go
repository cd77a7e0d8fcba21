package updater

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "webhook-secret"

func sign(secret, body string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(body))
	return "sha1=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	s := New(":0", testSecret, false, nil, func() {}, zerolog.Nop())
	body := []byte(`{"size": 3}`)

	assert.NoError(t, s.verifySignature(sign(testSecret, string(body)), body))
	assert.Error(t, s.verifySignature("", body), "missing header")
	assert.Error(t, s.verifySignature("sha1=", body), "empty signature")
	assert.Error(t, s.verifySignature("sha256=deadbeef", body), "wrong scheme")
	assert.Error(t, s.verifySignature(sign("other-secret", string(body)), body), "wrong secret")
	assert.Error(t, s.verifySignature(sign(testSecret, "tampered"), body), "tampered body")
}

func TestCommitCount(t *testing.T) {
	assert.Equal(t, 3, commitCount([]byte(`{"size": 3}`)))
	assert.Equal(t, 2, commitCount([]byte(`{"commits": [{}, {}]}`)))
	assert.Equal(t, -1, commitCount([]byte(`{}`)))
	assert.Equal(t, -1, commitCount([]byte(`not json`)))
	assert.Equal(t, 0, commitCount([]byte(`{"size": 0}`)), "an explicit size wins over commits")
}

func TestHandleUpdateRejectsBadSignature(t *testing.T) {
	s := New(":0", testSecret, false, nil, func() {}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/update", strings.NewReader(`{}`))
	req.Header.Set("X-Hub-Signature", "sha1=0000")
	rec := httptest.NewRecorder()

	s.handleUpdate(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleUpdateAcceptsSignedPayload(t *testing.T) {
	s := New(":0", testSecret, false, nil, func() {}, zerolog.Nop())

	applied := make(chan int, 1)
	s.apply = func(commits int) { applied <- commits }

	body := `{"size": 2}`
	req := httptest.NewRequest(http.MethodPost, "/update", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature", sign(testSecret, body))
	rec := httptest.NewRecorder()

	s.handleUpdate(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case commits := <-applied:
		assert.Equal(t, 2, commits)
	case <-time.After(time.Second):
		t.Fatal("update was never applied")
	}
}
