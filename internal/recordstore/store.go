// Package recordstore is the device-local record store. Each logical
// collection is one key holding a JSON array of records; writes replace the
// whole key atomically. There is no cross-key transactionality and no schema
// versioning - a format change is a breaking change.
package recordstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get for a missing key. Collection.Load maps
// it to an empty slice, matching the "missing key yields empty collection"
// contract.
var ErrNotFound = errors.New("record store: key not found")

// KV is the minimal key-value contract the collections are built on. All
// values are serialized JSON. Single-key writes are atomic; concurrent
// writers to the same key are not coordinated here (single-writer assumption,
// enforced upstream by the reconciler's in-flight flag).
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// Collection keys. These mirror the storage layout the mobile client uses, so
// a device database can be inspected or migrated 1:1.
const (
	KeyOfflineBeneficiaries = "offline_beneficiaries"
	KeyPendingApplications  = "pending_applications"
	KeySelfApplication      = "beneficiary_application"
	KeyKhataEntries         = "khata_entries"
	KeyAudits               = "audits"
	KeyDeliveries           = "deliveries"
)
