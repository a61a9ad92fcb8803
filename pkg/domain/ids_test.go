package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fairworkly/pkg/domain-errors"
)

func TestParseRunID(t *testing.T) {
	t.Run("valid uuid", func(t *testing.T) {
		raw := uuid.New()
		id, err := ParseRunID(raw.String())
		require.NoError(t, err)
		assert.Equal(t, raw.String(), id.String())
		assert.False(t, id.IsNil())
	})

	t.Run("empty input rejected", func(t *testing.T) {
		_, err := ParseRunID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := ParseRunID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("nil uuid rejected", func(t *testing.T) {
		_, err := ParseRunID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestRunIDShort(t *testing.T) {
	id, err := ParseRunID("a1b2c3d4-0000-4000-8000-000000000001")
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4", id.Short())
}

func TestTypedIDsAreDistinct(t *testing.T) {
	// Compile-time property, pinned here as documentation: the same UUID
	// renders identically but the types never interchange.
	raw := uuid.New()
	tenant := TenantID(raw)
	employee := EmployeeID(raw)
	assert.Equal(t, tenant.String(), employee.String())
}

func FuzzParseTenantID(f *testing.F) {
	f.Add("")
	f.Add("not-a-uuid")
	f.Add(uuid.Nil.String())
	f.Add(uuid.New().String())
	f.Fuzz(func(t *testing.T, s string) {
		id, err := ParseTenantID(s)
		if err == nil {
			if id.IsNil() {
				t.Fatalf("ParseTenantID(%q) accepted a nil id", s)
			}
			again, err := ParseTenantID(id.String())
			if err != nil || again != id {
				t.Fatalf("round trip failed for %q", s)
			}
		}
	})
}
