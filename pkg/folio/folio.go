// Package folio genera números de documento únicos (VTA-, TRF-, INC-)
// con sufijo aleatorio de 8 dígitos verificado contra la BD antes de aceptar.
package folio

import (
	"context"
	"fmt"
	"math/rand"
)

// Prefijos de documento.
const (
	PrefixSale     = "VTA"
	PrefixTransfer = "TRF"
	PrefixIncident = "INC"
)

// maxAttempts acota el reintento; con 90M combinaciones por prefijo una
// colisión repetida indica un problema de datos, no de azar.
const maxAttempts = 20

// ExistsFunc consulta si un número ya está en uso.
type ExistsFunc func(ctx context.Context, number string) (bool, error)

// Generate produce un número "<PREFIX>-%08d" que exists reporta como libre.
// Reintenta ante colisiones hasta maxAttempts.
func Generate(ctx context.Context, prefix string, exists ExistsFunc) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		number := fmt.Sprintf("%s-%08d", prefix, 10000000+rand.Intn(90000000))
		taken, err := exists(ctx, number)
		if err != nil {
			return "", fmt.Errorf("verificar folio: %w", err)
		}
		if !taken {
			return number, nil
		}
	}
	return "", fmt.Errorf("folio: sin número libre tras %d intentos", maxAttempts)
}
