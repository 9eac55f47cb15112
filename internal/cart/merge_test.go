package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

func seedCartLines(t *testing.T, svc Service, identity Identity, quantities map[uuid.UUID]int) {
	t.Helper()
	for productID, qty := range quantities {
		if _, err := svc.AddItem(context.Background(), identity, productID, qty); err != nil {
			t.Fatalf("seeding cart: %v", err)
		}
	}
}

func lineQuantities(cart *models.Cart) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(cart.Lines))
	for _, line := range cart.Lines {
		out[line.ProductID] = line.Quantity
	}
	return out
}

func TestMergeOnLoginSumsQuantities(t *testing.T) {
	shared := availableProduct()
	guestOnly := availableProduct()
	userOnly := availableProduct()
	loader := &stubProductLoader{products: map[uuid.UUID]*models.Product{
		shared.ID:    shared,
		guestOnly.ID: guestOnly,
		userOnly.ID:  userOnly,
	}}

	repo := newStubCartRepo()
	svc := newTestService(t, repo, &stubTxRunner{}, loader)

	seedCartLines(t, svc, ForUser("u-1"), map[uuid.UUID]int{shared.ID: 2, userOnly.ID: 1})
	seedCartLines(t, svc, ForGuest("s-1"), map[uuid.UUID]int{shared.ID: 3, guestOnly.ID: 4})

	merged, err := svc.MergeOnLogin(context.Background(), "u-1", "s-1")
	if err != nil {
		t.Fatalf("MergeOnLogin: %v", err)
	}

	got := lineQuantities(merged)
	want := map[uuid.UUID]int{shared.ID: 5, userOnly.ID: 1, guestOnly.ID: 4}
	for productID, qty := range want {
		if got[productID] != qty {
			t.Fatalf("product %s quantity = %d, want %d", productID, got[productID], qty)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("merged cart has %d lines, want %d", len(got), len(want))
	}

	guest, err := svc.Resolve(context.Background(), ForGuest("s-1"))
	if err != nil {
		t.Fatalf("resolving guest cart: %v", err)
	}
	if len(guest.Lines) != 0 {
		t.Fatal("guest cart must be emptied by the merge")
	}
}

func TestMergeOnLoginIsIdempotent(t *testing.T) {
	product := availableProduct()
	loader := &stubProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}}
	svc := newTestService(t, newStubCartRepo(), &stubTxRunner{}, loader)

	seedCartLines(t, svc, ForGuest("s-1"), map[uuid.UUID]int{product.ID: 2})

	first, err := svc.MergeOnLogin(context.Background(), "u-1", "s-1")
	if err != nil {
		t.Fatalf("first merge: %v", err)
	}
	second, err := svc.MergeOnLogin(context.Background(), "u-1", "s-1")
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if lineQuantities(first)[product.ID] != 2 || lineQuantities(second)[product.ID] != 2 {
		t.Fatal("replayed merge must not double quantities")
	}
}

func TestMergeOnLoginMissingGuestCart(t *testing.T) {
	svc := newTestService(t, newStubCartRepo(), &stubTxRunner{}, &stubProductLoader{})

	cart, err := svc.MergeOnLogin(context.Background(), "u-1", "s-never-seen")
	if err != nil {
		t.Fatalf("merge without guest cart must succeed: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatal("expected empty user cart")
	}
}

func TestMergeOnLoginGuestLoadFailureAborts(t *testing.T) {
	product := availableProduct()
	loader := &stubProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}}

	repo := newStubCartRepo()
	tx := &stubTxRunner{}
	svc := newTestService(t, repo, tx, loader)

	seedCartLines(t, svc, ForUser("u-1"), map[uuid.UUID]int{product.ID: 1})

	loadErr := errors.New("i/o timeout")
	repo.findByIdentity = func(ctx context.Context, identity Identity) (*models.Cart, error) {
		if identity.IsGuest() {
			return nil, loadErr
		}
		if id, ok := repo.byUser["u-1"]; ok {
			return repo.carts[id], nil
		}
		return nil, loadErr
	}

	cart, err := svc.MergeOnLogin(context.Background(), "u-1", "s-1")
	if err != nil {
		t.Fatalf("merge must absorb the guest load failure: %v", err)
	}
	if lineQuantities(cart)[product.ID] != 1 {
		t.Fatal("user cart must be returned unmodified")
	}
	if tx.calls != 0 {
		t.Fatal("no transaction may run when the guest cart cannot be loaded")
	}
}

func TestMergeOnLoginTxFailurePreservesGuestCart(t *testing.T) {
	product := availableProduct()
	loader := &stubProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}}

	repo := newStubCartRepo()
	tx := &stubTxRunner{err: errors.New("deadlock detected")}
	svc := newTestService(t, repo, tx, loader)

	seedCartLines(t, svc, ForGuest("s-1"), map[uuid.UUID]int{product.ID: 2})

	cart, err := svc.MergeOnLogin(context.Background(), "u-1", "s-1")
	if err != nil {
		t.Fatalf("merge must absorb the transaction failure: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatal("user cart must stay unmodified after rollback")
	}

	guest, err := svc.Resolve(context.Background(), ForGuest("s-1"))
	if err != nil {
		t.Fatalf("resolving guest cart: %v", err)
	}
	if lineQuantities(guest)[product.ID] != 2 {
		t.Fatal("guest cart must survive a failed merge for the next retry")
	}
}

func TestMergeOnLoginValidation(t *testing.T) {
	svc := newTestService(t, newStubCartRepo(), &stubTxRunner{}, &stubProductLoader{})

	for _, pair := range [][2]string{{"", "s-1"}, {"u-1", ""}, {"", ""}} {
		_, err := svc.MergeOnLogin(context.Background(), pair[0], pair[1])
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %q/%q, got %v", pair[0], pair[1], err)
		}
	}
}
