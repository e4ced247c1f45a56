/*
DESCRIPTION
  frame_test.go provides testing for frame.go.
*/
package frame

import "testing"

func TestSingleSectionFrameFinalizesImmediately(t *testing.T) {
	d := New(1, 1, 1, true)
	called := false
	res, err := d.Submit(0, func(role Role) error {
		called = true
		if role != RoleSingleSection {
			t.Fatalf("role = %v, want RoleSingleSection", role)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != Processed || !called {
		t.Fatalf("Submit() = %v, called=%v, want Processed/true", res, called)
	}
	if d.State != Finalized {
		t.Fatalf("State = %v, want Finalized", d.State)
	}
}

func TestMultiSectionDependencyOrdering(t *testing.T) {
	d := New(1, 1, 1, false)

	// AC-global before DC is done: must be skipped, not processed.
	res, err := d.Submit(d.acGlobalLogicalID(), func(Role) error { return nil })
	if err != nil || res != Skipped {
		t.Fatalf("AC-global before DC: res=%v err=%v, want Skipped/nil", res, err)
	}

	// DC-global.
	res, err = d.Submit(0, func(role Role) error {
		if role != RoleDCGlobal {
			t.Fatalf("role = %v, want RoleDCGlobal", role)
		}
		return nil
	})
	if err != nil || res != Processed {
		t.Fatalf("DC-global: res=%v err=%v", res, err)
	}

	// Duplicate DC-global.
	res, _ = d.Submit(0, func(Role) error { return nil })
	if res != Duplicate {
		t.Fatalf("duplicate DC-global: res=%v, want Duplicate", res)
	}

	// DC-group 0.
	res, err = d.Submit(1, func(role Role) error {
		if role != RoleDCGroup {
			t.Fatalf("role = %v, want RoleDCGroup", role)
		}
		return nil
	})
	if err != nil || res != Processed {
		t.Fatalf("DC-group: res=%v err=%v", res, err)
	}

	// AC-global now processable.
	res, err = d.Submit(d.acGlobalLogicalID(), func(Role) error { return nil })
	if err != nil || res != Processed {
		t.Fatalf("AC-global: res=%v err=%v", res, err)
	}

	// AC group pass 0 of group 0.
	res, err = d.Submit(d.acGroupLogicalID(0, 0), func(role Role) error {
		if role != RoleACGroup {
			t.Fatalf("role = %v, want RoleACGroup", role)
		}
		return nil
	})
	if err != nil || res != Processed {
		t.Fatalf("AC-group: res=%v err=%v", res, err)
	}

	if d.State != Finalized {
		t.Fatalf("State = %v, want Finalized", d.State)
	}
}
