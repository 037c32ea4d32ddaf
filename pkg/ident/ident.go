// Package ident genera los códigos legibles de rastreo y de transacción:
// prefijo + timestamp en base 36 + sufijo aleatorio. Resistente a colisiones
// sin coordinar con la base de datos.
package ident

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewTrackingNumber devuelve un número de rastreo de producto (TRK-...).
func NewTrackingNumber() string {
	return strings.ToUpper("TRK-" + stamp() + "-" + randomSuffix(5))
}

// NewTransactionID devuelve un id de transacción del ledger (TXN-...).
func NewTransactionID() string {
	return "TXN-" + stamp() + randomSuffix(5)
}

func stamp() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 36)
}

func randomSuffix(n int) string {
	max := big.NewInt(int64(len(suffixAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand no debería fallar; degradar al reloj antes que devolver vacío
			b[i] = suffixAlphabet[time.Now().Nanosecond()%len(suffixAlphabet)]
			continue
		}
		b[i] = suffixAlphabet[idx.Int64()]
	}
	return string(b)
}
