package validator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type signupPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	err := ValidateStruct(&signupPayload{Email: "not-an-email", Password: "Secret1!"})
	require.Error(t, err)

	failures, ok := err.(ValidationErrors)
	require.True(t, ok)
	require.Len(t, failures, 1)
	require.Equal(t, "email", failures[0].Field)
	require.Equal(t, "email", failures[0].Tag)
}

func TestPasswordRule(t *testing.T) {
	cases := map[string]bool{
		"Secret1!":  true,
		"short1!":   false,
		"NoDigits!": false,
		"nodigit1":  false,
		"12345678!": false,
	}

	for password, valid := range cases {
		err := ValidateStruct(&signupPayload{Email: "user@example.com", Password: password})
		if valid {
			require.NoError(t, err, password)
		} else {
			require.Error(t, err, password)
		}
	}
}
