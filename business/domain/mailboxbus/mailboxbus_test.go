package mailboxbus_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/essentialsgg/relay/business/domain/mailboxbus"
	"github.com/essentialsgg/relay/business/domain/mailboxbus/stores/mailboxfile"
	"github.com/essentialsgg/relay/business/domain/tenantbus"
	"github.com/essentialsgg/relay/business/domain/tenantbus/stores/tenantfile"
	"github.com/essentialsgg/relay/business/sdk/docstore"
	"github.com/essentialsgg/relay/business/types/capability"
	"github.com/essentialsgg/relay/business/types/commandkind"
	"github.com/essentialsgg/relay/foundation/logger"
	"github.com/google/go-cmp/cmp"
)

func newTestCore(t *testing.T) (*mailboxbus.Core, string) {
	t.Helper()

	log := logger.New(os.Stdout, logger.LevelError, "TEST", nil)

	ds, err := docstore.Open(filepath.Join(t.TempDir(), "relay.json"))
	if err != nil {
		t.Fatalf("Should be able to open the doc store : %s", err)
	}

	tenantBus := tenantbus.NewCore(log, tenantfile.NewStore(log, ds))
	core := mailboxbus.NewCore(log, tenantBus, mailboxfile.NewStore(log, ds))

	tenant, err := tenantBus.Register(context.Background(), "guild-1", capability.ManageGuild)
	if err != nil {
		t.Fatalf("Should be able to register a tenant : %s", err)
	}

	return core, tenant.APIKey
}

func Test_SubmitUnknownTenant(t *testing.T) {
	core, _ := newTestCore(t)
	ctx := context.Background()

	payload := map[string]string{"targetUser": "alice", "reason": "afk"}

	if _, err := core.Submit(ctx, "not-a-key", commandkind.Kick, payload); !errors.Is(err, mailboxbus.ErrTenantNotFound) {
		t.Errorf("Should report ErrTenantNotFound for an unregistered key : %v", err)
	}
}

func Test_SubmitMissingFields(t *testing.T) {
	core, key := newTestCore(t)
	ctx := context.Background()

	payload := map[string]string{"reason": "afk"}

	if _, err := core.Submit(ctx, key, commandkind.Kick, payload); !errors.Is(err, mailboxbus.ErrInvalidPayload) {
		t.Errorf("Should report ErrInvalidPayload without targetUser : %v", err)
	}
}

func Test_OverwriteWins(t *testing.T) {
	core, key := newTestCore(t)
	ctx := context.Background()

	first := map[string]string{"type": "message", "title": "A", "message": "first"}
	second := map[string]string{"type": "message", "title": "B", "message": "second"}

	if _, err := core.Submit(ctx, key, commandkind.Broadcast, first); err != nil {
		t.Fatalf("Should be able to submit : %s", err)
	}
	if _, err := core.Submit(ctx, key, commandkind.Broadcast, second); err != nil {
		t.Fatalf("Should be able to submit again : %s", err)
	}

	e, err := core.Peek(ctx, key, commandkind.Broadcast)
	if err != nil {
		t.Fatalf("Should be able to peek : %s", err)
	}

	if diff := cmp.Diff(second, e.Payload); diff != "" {
		t.Errorf("Should observe the later submission. diff:\n%s", diff)
	}
}

func Test_BroadcastPeekRepeatable(t *testing.T) {
	core, key := newTestCore(t)
	ctx := context.Background()

	payload := map[string]string{"type": "hint", "title": "Maintenance", "message": "5 min"}

	id, err := core.Submit(ctx, key, commandkind.Broadcast, payload)
	if err != nil {
		t.Fatalf("Should be able to submit : %s", err)
	}

	for i := 0; i < 3; i++ {
		e, err := core.Poll(ctx, key, commandkind.Broadcast)
		if err != nil {
			t.Fatalf("Should be able to re-read a broadcast : %s", err)
		}
		if e.ID != id {
			t.Errorf("Should keep returning the same entry : got id %q, want %q", e.ID, id)
		}
	}
}

func Test_ConsumeClearsSlot(t *testing.T) {
	core, key := newTestCore(t)
	ctx := context.Background()

	payload := map[string]string{"targetUser": "alice", "reason": "afk"}

	if _, err := core.Submit(ctx, key, commandkind.Kick, payload); err != nil {
		t.Fatalf("Should be able to submit : %s", err)
	}

	e, err := core.Poll(ctx, key, commandkind.Kick)
	if err != nil {
		t.Fatalf("Should get the entry on the first poll : %s", err)
	}
	if diff := cmp.Diff(payload, e.Payload); diff != "" {
		t.Errorf("Should return the submitted payload. diff:\n%s", diff)
	}

	if _, err := core.Poll(ctx, key, commandkind.Kick); !errors.Is(err, mailboxbus.ErrNoEntry) {
		t.Errorf("Should find the slot empty on the second poll : %v", err)
	}
}

func Test_ConcurrentConsume(t *testing.T) {
	core, key := newTestCore(t)
	ctx := context.Background()

	payload := map[string]string{"jobId": "job-7", "reason": "maintenance"}

	if _, err := core.Submit(ctx, key, commandkind.Shutdown, payload); err != nil {
		t.Fatalf("Should be able to submit : %s", err)
	}

	const consumers = 10

	var winners atomic.Int32
	var wg sync.WaitGroup
	wg.Add(consumers)

	for i := 0; i < consumers; i++ {
		go func() {
			defer wg.Done()

			_, err := core.Consume(ctx, key, commandkind.Shutdown)
			switch {
			case err == nil:
				winners.Add(1)
			case errors.Is(err, mailboxbus.ErrNoEntry):
			default:
				t.Errorf("Should only ever see an entry or an empty slot : %s", err)
			}
		}()
	}

	wg.Wait()

	if winners.Load() != 1 {
		t.Errorf("Should hand the entry to exactly one consumer : got %d", winners.Load())
	}
}

func Test_SlotsIndependent(t *testing.T) {
	core, key := newTestCore(t)
	ctx := context.Background()

	broadcast := map[string]string{"type": "message", "title": "T", "message": "M"}
	kick := map[string]string{"targetUser": "alice"}

	if _, err := core.Submit(ctx, key, commandkind.Broadcast, broadcast); err != nil {
		t.Fatalf("Should be able to submit a broadcast : %s", err)
	}
	if _, err := core.Submit(ctx, key, commandkind.Kick, kick); err != nil {
		t.Fatalf("Should be able to submit a kick : %s", err)
	}

	if _, err := core.Poll(ctx, key, commandkind.Kick); err != nil {
		t.Fatalf("Should consume the kick : %s", err)
	}

	if _, err := core.Peek(ctx, key, commandkind.Broadcast); err != nil {
		t.Errorf("Should leave the broadcast slot untouched : %s", err)
	}
}
