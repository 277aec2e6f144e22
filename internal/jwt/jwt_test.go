package jwt

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress-dev/inkpress/internal/domain"
	internal_errors "github.com/inkpress-dev/inkpress/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	j := New("secret", time.Hour)
	user := domain.User{Id: uuid.New(), Username: "alice"}

	token, err := j.NewToken(user)
	require.NoError(t, err)

	uid, username, err := j.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.Id, uid)
	assert.Equal(t, "alice", username)
}

func TestDecodeTokenRejects(t *testing.T) {
	j := New("secret", time.Hour)
	user := domain.User{Id: uuid.New(), Username: "alice"}

	cases := map[string]string{}

	token, err := New("a different secret", time.Hour).NewToken(user)
	require.NoError(t, err)
	cases["token signed with another key"] = token

	token, err = New("secret", -time.Hour).NewToken(user)
	require.NoError(t, err)
	cases["expired token"] = token

	cases["garbage"] = "not.a.jwt"

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := j.DecodeToken(token)
			require.Error(t, err)
			assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
		})
	}
}
