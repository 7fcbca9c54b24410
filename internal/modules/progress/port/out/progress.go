package out

import (
	"context"

	"storydeck/internal/modules/progress/domain"
)

// KVStore is the durable string store the progression record lives in.
// Read reports found=false when the key has never been written.
type KVStore interface {
	Read(ctx context.Context, key string) (value string, found bool, err error)
	Write(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type CertificateStore interface {
	Save(ctx context.Context, cert domain.Certificate) (string, error)
}
