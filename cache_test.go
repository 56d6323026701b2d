package staticpress

import (
	"errors"
	"testing"
	"time"
)

func TestSiteCache(t *testing.T) {
	var c SiteCache
	if c.Current() != nil {
		t.Fatal("empty cache should have no build")
	}

	t0 := fixedClock()
	good := &Build{}
	c.Store(good, t0)
	if c.Current() != good {
		t.Fatal("Store did not publish the build")
	}

	failure := errors.New("boom")
	c.Fail(failure, t0.Add(time.Minute))
	if c.Current() != good {
		t.Error("a failure replaced the last good build")
	}
	st := c.Status()
	if !errors.Is(st.LastError, failure) || !st.FailedAt.Equal(t0.Add(time.Minute)) || !st.LoadedAt.Equal(t0) {
		t.Errorf("status = %+v", st)
	}

	next := &Build{}
	c.Store(next, t0.Add(2*time.Minute))
	st = c.Status()
	if c.Current() != next || st.LastError != nil || !st.FailedAt.IsZero() {
		t.Errorf("successful store should clear the failure, got %+v", st)
	}
}
