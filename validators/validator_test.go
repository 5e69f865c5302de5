package validators

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkrasnov/markethub/backend/internal/apperrors"
	"github.com/dkrasnov/markethub/backend/internal/models"
)

func TestValidate_OK(t *testing.T) {
	v := NewValidator()

	err := v.Validate(models.SignupRequest{
		Name:     "Anna",
		Email:    "anna@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	v := NewValidator()

	err := v.Validate(models.SignupRequest{
		Name:     "A",
		Email:    "not-an-email",
		Password: "short",
	})
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 3)

	paths := make(map[string]string, len(verr.Fields))
	for _, fe := range verr.Fields {
		paths[fe.Path] = fe.Message
	}
	require.Equal(t, "must be at least 2", paths["name"])
	require.Equal(t, "must be a valid email address", paths["email"])
	require.Equal(t, "must be at least 8", paths["password"])
}

func TestValidate_RequiredMessage(t *testing.T) {
	v := NewValidator()

	err := v.Validate(models.CreateCommentRequest{})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	require.Equal(t, "content", verr.Fields[0].Path)
	require.Equal(t, "is required", verr.Fields[0].Message)
}
