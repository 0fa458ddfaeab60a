package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmpoweredVote/bookshelf/internal/common"
	"github.com/EmpoweredVote/bookshelf/internal/utils"
)

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	m := NewManager("super-secret", time.Hour)
	tok, err := m.Issue(utils.Identity{ID: 3, Username: "ann"})
	require.NoError(t, err)

	got, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, utils.Identity{ID: 3, Username: "ann"}, got)
}

func TestIssue_ClaimsCarryIdentityAndExpiry(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager("k", 24*time.Hour)
	m.now = func() time.Time { return fixed }

	tok, err := m.Issue(utils.Identity{ID: 9, Username: "bob"})
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.UserID)
	assert.Equal(t, "bob", claims.Username)
	assert.Equal(t, fixed.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	m := NewManager("secret", -time.Second)
	tok, err := m.Issue(utils.Identity{ID: 1, Username: "u1"})
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewManager("right-secret", time.Hour).Issue(utils.Identity{ID: 2, Username: "u2"})
	require.NoError(t, err)

	_, err = NewManager("wrong-secret", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	m := NewManager("k", time.Hour)
	tok, err := m.Issue(utils.Identity{ID: 2, Username: "u2"})
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(`{"id":1,"username":"admin","exp":9999999999}`))

	_, err = m.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Username: "x"})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager("k", time.Hour).Verify(s)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_MalformedAndEmpty(t *testing.T) {
	t.Parallel()

	m := NewManager("k", time.Hour)
	_, err := m.Verify("not.a.jwt")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = m.Verify("")
	assert.ErrorIs(t, err, common.ErrNoToken)
}
