package shaped

import (
	"testing"
	"time"
)

func TestMipPolicySlowUpdatesKeepMipmapping(t *testing.T) {
	policy := MipPolicy{Enabled: true}
	now := time.Unix(0, 0)

	if policy.ShouldUseMipmap(now) {
		t.Error("no invalidation yet: nothing to mipmap")
	}

	for i := 0; i < 10; i++ {
		policy.RecordUpdate(now)

		if i > 0 && !policy.ShouldUseMipmap(now) {
			t.Fatalf("update %d: slow updates must keep mipmapping on", i)
		}

		now = now.Add(MinMipmapAge)
	}

	if policy.FastUpdates() != 0 {
		t.Errorf("fast update counter = %d, want 0", policy.FastUpdates())
	}
}

func TestMipPolicyBurstSaturates(t *testing.T) {
	policy := MipPolicy{Enabled: true}
	now := time.Unix(0, 0)

	// A sustained burst of fast updates erodes confidence. The counter
	// saturates at the threshold instead of overflowing.
	for i := 0; i < MinFastUpdatesBeforeUnmipmap*2; i++ {
		policy.RecordUpdate(now)
		now = now.Add(time.Millisecond)
	}

	if got := policy.FastUpdates(); got != MinFastUpdatesBeforeUnmipmap {
		t.Fatalf("fast update counter = %d, want %d", got, MinFastUpdatesBeforeUnmipmap)
	}

	if policy.ShouldUseMipmap(now) {
		t.Error("saturated burst with fresh damage must disable mipmapping")
	}

	// Once the content has been stable long enough, the age condition
	// re-enables mipmapping on its own.
	if !policy.ShouldUseMipmap(now.Add(MinMipmapAge)) {
		t.Error("aged-out content must mipmap again")
	}

	// And a single slow update resets the counter entirely.
	policy.RecordUpdate(now.Add(MinMipmapAge))
	if policy.FastUpdates() != 0 {
		t.Errorf("fast update counter = %d after slow update, want 0", policy.FastUpdates())
	}
}

func TestMipPolicyShortBurstTolerated(t *testing.T) {
	policy := MipPolicy{Enabled: true}
	now := time.Unix(0, 0)

	// 20 consecutive updates 1ms apart: the 19 intervals stay below the
	// threshold of 20, so mipmapping survives the burst.
	for i := 0; i < 20; i++ {
		policy.RecordUpdate(now)
		now = now.Add(time.Millisecond)
	}

	if !policy.ShouldUseMipmap(now) {
		t.Error("burst below threshold must not disable mipmapping")
	}

	// The 21st update pushes the counter to the threshold; together with
	// the failing age condition this disables mipmap use.
	policy.RecordUpdate(now)
	now = now.Add(time.Millisecond)
	if policy.ShouldUseMipmap(now) {
		t.Error("threshold reached with fresh damage: mipmapping must be off")
	}
}

func TestMipPolicyDisabled(t *testing.T) {
	policy := MipPolicy{}
	now := time.Unix(0, 0)

	policy.RecordUpdate(now)

	if policy.ShouldUseMipmap(now.Add(time.Hour)) {
		t.Error("disabled policy must never use mipmaps")
	}
}

func TestMipPolicyEarliestRemipmap(t *testing.T) {
	policy := MipPolicy{Enabled: true}
	now := time.Unix(100, 0)

	deadline := policy.EarliestRemipmap(now)
	want := now.Add(MinMipmapAge - time.Millisecond)

	if !deadline.Equal(want) {
		t.Errorf("deadline = %v, want %v", deadline, want)
	}
}
