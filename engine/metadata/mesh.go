package metadata

import (
	"sync"

	"github.com/google/uuid"
	"github.com/spaghettifunk/meshops/engine/math"
)

/**
 * @brief A contiguous run of geometry sharing one material. Buffers are
 * parallel: Normals, UV0 and Tangents are either empty or as long as Positions.
 */
type MeshSection struct {
	Positions []math.Vec3
	/** @brief Triangle list indices into Positions. */
	Indices  []uint32
	Normals  []math.Vec3
	UV0      []math.Vec2
	Tangents []math.Vec4
	Material *Material
}

// IsEmpty reports whether the section has no drawable triangles.
func (s *MeshSection) IsEmpty() bool {
	return s == nil || len(s.Positions) == 0 || len(s.Indices) < 3
}

// Clone returns a deep copy of the buffers. The material is shared.
func (s *MeshSection) Clone() *MeshSection {
	return &MeshSection{
		Positions: append([]math.Vec3(nil), s.Positions...),
		Indices:   append([]uint32(nil), s.Indices...),
		Normals:   append([]math.Vec3(nil), s.Normals...),
		UV0:       append([]math.Vec2(nil), s.UV0...),
		Tangents:  append([]math.Vec4(nil), s.Tangents...),
		Material:  s.Material,
	}
}

/** @brief One level of detail of a static mesh. */
type MeshLOD struct {
	Sections []*MeshSection
}

/**
 * @brief A baked mesh, shared by every static mesh node that uses it.
 */
type StaticMesh struct {
	ID   uuid.UUID
	Name string
	/** @brief LOD 0 is the most detailed. */
	LODs []*MeshLOD
}

func NewStaticMesh(name string, lods ...*MeshLOD) *StaticMesh {
	return &StaticMesh{
		ID:   uuid.New(),
		Name: name,
		LODs: lods,
	}
}

func (sm *StaticMesh) LODCount() int {
	if sm == nil {
		return 0
	}
	return len(sm.LODs)
}

/** @brief A section of a procedural mesh, tagged with the LOD it came from. */
type ProcMeshSection struct {
	LOD int
	MeshSection
}

/**
 * @brief Collision data cooked from the sections of a procedural mesh.
 */
type CollisionData struct {
	Extents       math.Extents3D
	Center        math.Vec3
	TriangleCount uint32
	/** @brief The section generation the data was cooked from. */
	Generation uint32
}

/**
 * @brief An editable mesh built section by section. Sections are only
 * touched from the owning goroutine; collision data may be published from
 * a background job, so it is guarded.
 */
type ProcMesh struct {
	/** @brief Cook collision on the job system instead of inline. */
	UseAsyncCooking bool

	sections []*ProcMeshSection

	mu         sync.Mutex
	generation uint32
	collision  *CollisionData
}

// CreateSection appends a copy of section and returns its index.
func (pm *ProcMesh) CreateSection(lod int, section *MeshSection) int {
	pm.sections = append(pm.sections, &ProcMeshSection{
		LOD:         lod,
		MeshSection: *section.Clone(),
	})
	pm.mu.Lock()
	pm.generation++
	pm.mu.Unlock()
	return len(pm.sections) - 1
}

// ClearAllSections drops every section and any cooked collision.
func (pm *ProcMesh) ClearAllSections() {
	pm.sections = nil
	pm.mu.Lock()
	pm.generation++
	pm.collision = nil
	pm.mu.Unlock()
}

func (pm *ProcMesh) Sections() []*ProcMeshSection {
	return pm.sections
}

func (pm *ProcMesh) SectionCount() int {
	return len(pm.sections)
}

// LODCount returns the number of distinct LODs that own at least one section.
func (pm *ProcMesh) LODCount() int {
	seen := make(map[int]struct{})
	for _, s := range pm.sections {
		seen[s.LOD] = struct{}{}
	}
	return len(seen)
}

// SectionsForLOD returns the sections created for lod, in creation order.
func (pm *ProcMesh) SectionsForLOD(lod int) []*ProcMeshSection {
	var out []*ProcMeshSection
	for _, s := range pm.sections {
		if s.LOD == lod {
			out = append(out, s)
		}
	}
	return out
}

// CookInput snapshots what collision cooking needs: every position, the
// triangle count and the current generation.
func (pm *ProcMesh) CookInput() ([]math.Vec3, uint32, uint32) {
	var positions []math.Vec3
	var triangles uint32
	for _, s := range pm.sections {
		positions = append(positions, s.Positions...)
		triangles += uint32(len(s.Indices) / 3)
	}
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return positions, triangles, pm.generation
}

// PublishCollision stores data unless the sections changed since it was
// cooked. It reports whether the data was kept.
func (pm *ProcMesh) PublishCollision(data *CollisionData) bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if data.Generation != pm.generation {
		return false
	}
	pm.collision = data
	return true
}

// Collision returns the cooked collision data, if it is up to date.
func (pm *ProcMesh) Collision() (CollisionData, bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.collision == nil || pm.collision.Generation != pm.generation {
		return CollisionData{}, false
	}
	return *pm.collision, true
}
