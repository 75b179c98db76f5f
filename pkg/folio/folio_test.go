package folio_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayronmiranda/StoreManage/pkg/folio"
)

func TestGenerate_FormatoPorPrefijo(t *testing.T) {
	libre := func(_ context.Context, _ string) (bool, error) { return false, nil }

	for _, prefix := range []string{folio.PrefixSale, folio.PrefixTransfer, folio.PrefixIncident} {
		number, err := folio.Generate(context.Background(), prefix, libre)
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile("^"+prefix+`-\d{8}$`), number)
	}
}

func TestGenerate_ReintentaTrasColision(t *testing.T) {
	llamadas := 0
	// Las dos primeras consultas reportan el número ocupado
	exists := func(_ context.Context, _ string) (bool, error) {
		llamadas++
		return llamadas <= 2, nil
	}

	number, err := folio.Generate(context.Background(), folio.PrefixSale, exists)
	require.NoError(t, err)
	assert.NotEmpty(t, number)
	assert.Equal(t, 3, llamadas, "debe reintentar hasta encontrar un número libre")
}

func TestGenerate_AgotaIntentos(t *testing.T) {
	siempreOcupado := func(_ context.Context, _ string) (bool, error) { return true, nil }

	_, err := folio.Generate(context.Background(), folio.PrefixIncident, siempreOcupado)
	assert.Error(t, err, "con todos los números ocupados debe rendirse")
}

func TestGenerate_PropagaErrorDeConsulta(t *testing.T) {
	errBD := errors.New("conexión perdida")
	falla := func(_ context.Context, _ string) (bool, error) { return false, errBD }

	_, err := folio.Generate(context.Background(), folio.PrefixTransfer, falla)
	assert.ErrorIs(t, err, errBD)
}
