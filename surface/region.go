package surface

import (
	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/object"
)

// RegionObj is the thin client-owned wrapper around a geom.Region
// value (§4.5): wl_region's add/subtract/destroy requests, plus an
// object-bus handle so destruction can fire EventDestroy the same way
// every other resource-backed object does.
type RegionObj struct {
	obj    *object.Object
	region geom.Region
	table  *RegionTable
}

// NewRegionObj allocates an empty RegionObj tracked by table.
func NewRegionObj(space *object.Space, table *RegionTable) *RegionObj {
	r := &RegionObj{obj: space.Alloc(object.TypeRegion), table: table}
	if table != nil {
		table.regions = append(table.regions, r)
	}
	return r
}

func (r *RegionObj) Object() *object.Object { return r.obj }

// Region returns the wrapper's current region value (a copy; geom.Region
// operations never alias between holders, see geom.Region.Clone).
func (r *RegionObj) Region() geom.Region { return r.region }

// Add unions (x,y,w,h) into the region (wl_region.add).
func (r *RegionObj) Add(x, y, w, h int32) {
	r.region.Union(geom.RectXYWH(x, y, w, h))
}

// Subtract removes (x,y,w,h) from the region (wl_region.subtract).
func (r *RegionObj) Subtract(x, y, w, h int32) {
	r.region.Subtract(geom.RectXYWH(x, y, w, h))
}

// Destroy unlinks the region from the compositor's region list and
// fires EventDestroy (§4.5: "Destroying unlinks from the compositor's
// region list").
func (r *RegionObj) Destroy() {
	if r.table != nil {
		r.table.remove(r)
	}
	r.obj.Fini()
}

// RegionTable is the compositor's list of live region objects,
// mirroring buffer.Table's resource-registry shape for a much
// simpler, non-refcounted object.
type RegionTable struct {
	regions []*RegionObj
}

// NewRegionTable returns an empty region registry.
func NewRegionTable() *RegionTable { return &RegionTable{} }

func (t *RegionTable) remove(r *RegionObj) {
	for i, x := range t.regions {
		if x == r {
			t.regions = append(t.regions[:i], t.regions[i+1:]...)
			return
		}
	}
}

// Regions returns the live region objects, for diagnostics/tests.
func (t *RegionTable) Regions() []*RegionObj { return append([]*RegionObj(nil), t.regions...) }
