package graph

import (
	"errors"
	"slices"
	"testing"
)

// sliceIter walks items and fails with failAt's error once the walk reaches
// index failAt, returning a nil element alongside it.
func sliceIter(items []int, failAt int, err error) (func() (*int, error), func(*int) (*int, error)) {
	pos := 0
	get := func() (*int, error) {
		if pos == failAt {
			return nil, err
		}
		if pos >= len(items) {
			return nil, nil
		}
		v := &items[pos]
		pos++
		return v, nil
	}
	return get, func(*int) (*int, error) { return get() }
}

func TestEach(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		failAt  int
		want    []int
		wantErr error
	}{
		{"full walk", -1, []int{1, 2, 3}, nil},
		{"first fails", 0, nil, boom},
		{"next fails", 2, []int{1, 2}, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, next := sliceIter([]int{1, 2, 3}, tt.failAt, boom)
			var got []int
			err := each(first, next, func(v *int) error {
				got = append(got, *v)
				return nil
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("each() error = %v, want %v", err, tt.wantErr)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("visited %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEach_CallbackError(t *testing.T) {
	stop := errors.New("stop")
	first, next := sliceIter([]int{1, 2, 3}, -1, nil)
	calls := 0
	err := each(first, next, func(*int) error {
		calls++
		return stop
	})
	if err != stop {
		t.Errorf("each() error = %v, want %v", err, stop)
	}
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
}
