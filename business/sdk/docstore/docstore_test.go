package docstore_test

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/essentialsgg/relay/business/sdk/docstore"
)

func Test_OpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.json")

	ds, err := docstore.Open(path)
	if err != nil {
		t.Fatalf("Should be able to open a missing file : %s", err)
	}

	err = ds.View(func(doc *docstore.Document) error {
		if len(doc.Tenants) != 0 || len(doc.Mailboxes) != 0 {
			t.Error("Should start with an empty document")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Should be able to view the document : %s", err)
	}
}

func Test_PersistReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.json")

	ds, err := docstore.Open(path)
	if err != nil {
		t.Fatalf("Should be able to open the doc store : %s", err)
	}

	err = ds.Update(func(doc *docstore.Document) error {
		doc.Tenants["guild-1"] = docstore.Tenant{
			ID:                 "guild-1",
			APIKey:             "abc",
			RequiredCapability: "ManageGuild",
			CreatedAt:          time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Should be able to update the document : %s", err)
	}

	reopened, err := docstore.Open(path)
	if err != nil {
		t.Fatalf("Should be able to reopen the file : %s", err)
	}

	err = reopened.View(func(doc *docstore.Document) error {
		if doc.Tenants["guild-1"].APIKey != "abc" {
			t.Error("Should find the tenant after a reload")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Should be able to view the document : %s", err)
	}
}

func Test_FailedUpdateNotPublished(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.json")

	ds, err := docstore.Open(path)
	if err != nil {
		t.Fatalf("Should be able to open the doc store : %s", err)
	}

	boom := errors.New("boom")

	err = ds.Update(func(doc *docstore.Document) error {
		doc.Tenants["guild-1"] = docstore.Tenant{ID: "guild-1"}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Should get the mutation error back : %v", err)
	}

	err = ds.View(func(doc *docstore.Document) error {
		if _, exists := doc.Tenants["guild-1"]; exists {
			t.Error("Should not publish a failed mutation")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Should be able to view the document : %s", err)
	}
}

func Test_ConcurrentUpdates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.json")

	ds, err := docstore.Open(path)
	if err != nil {
		t.Fatalf("Should be able to open the doc store : %s", err)
	}

	const writers = 20

	var wg sync.WaitGroup
	wg.Add(writers)

	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()

			err := ds.Update(func(doc *docstore.Document) error {
				doc.Tenants["counter"] = docstore.Tenant{
					ID:     "counter",
					APIKey: doc.Tenants["counter"].APIKey + "x",
				}
				return nil
			})
			if err != nil {
				t.Errorf("Should be able to update concurrently : %s", err)
			}
		}()
	}

	wg.Wait()

	err = ds.View(func(doc *docstore.Document) error {
		if got := len(doc.Tenants["counter"].APIKey); got != writers {
			t.Errorf("Should serialize all writers : got %d, want %d", got, writers)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Should be able to view the document : %s", err)
	}
}
