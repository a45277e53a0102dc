package engine

// ============================================================================
// VIEWS — Zero-Copy Access to the Loaded Dataset
// ============================================================================
// The engine never mutates booking data. It reads through View.
//
// Implementations:
//   Dataset  — the immutable, fully loaded collection
//   SubView  — filtered subset (indices into parent, zero-copy)
//
// Every dashboard section holds its own SubView over the shared Dataset.
// ============================================================================

// View provides indexed, read-only access to bookings.
// Aggregators call At in tight loops, so implementations must stay cheap.
type View interface {
	Len() int
	At(index int) Booking
}

// ============================================================================
// DATASET — immutable after load
// ============================================================================

// Dataset is the ordered, load-time collection of bookings.
// It is never modified after NewDataset returns, so it can be shared freely.
type Dataset struct {
	bookings []Booking
}

// NewDataset takes ownership of bookings. Callers must not modify the slice
// afterwards.
func NewDataset(bookings []Booking) *Dataset {
	return &Dataset{bookings: bookings}
}

func (d *Dataset) Len() int { return len(d.bookings) }

func (d *Dataset) At(i int) Booking {
	if i < 0 || i >= len(d.bookings) {
		return Booking{}
	}
	return d.bookings[i]
}

// Bookings returns a copy of the underlying records.
func (d *Dataset) Bookings() []Booking {
	out := make([]Booking, len(d.bookings))
	copy(out, d.bookings)
	return out
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent View.
// Holds indices into the parent; records are not copied.
type SubView struct {
	parent  View
	indices []int
}

func newSubView(parent View, indices []int) View {
	// Flatten nested sub-views so lookups stay O(1) after repeated filtering.
	if sv, ok := parent.(*SubView); ok {
		flat := make([]int, len(indices))
		for i, idx := range indices {
			flat[i] = sv.indices[idx]
		}
		return &SubView{parent: sv.parent, indices: flat}
	}
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) At(i int) Booking {
	if i < 0 || i >= len(v.indices) {
		return Booking{}
	}
	return v.parent.At(v.indices[i])
}

// Collect copies a view's bookings into a new slice.
func Collect(view View) []Booking {
	out := make([]Booking, view.Len())
	for i := range out {
		out[i] = view.At(i)
	}
	return out
}

// Where returns the subset of view whose bookings satisfy keep.
func Where(view View, keep func(Booking) bool) View {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if keep(view.At(i)) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}
