package meshops

import (
	"fmt"

	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/math"
	"github.com/spaghettifunk/meshops/engine/metadata"
	"github.com/spaghettifunk/meshops/engine/scene"
)

// ConvertStaticToProc copies the first lods LODs of the static mesh of src
// into the procedural mesh of dst, one section per source section. material
// overrides the section materials when not nil. Requesting more LODs than
// the source has converts the available ones. It returns the number of LODs
// that produced at least one section.
func ConvertStaticToProc(s *scene.Scene, src, dst scene.NodeID, material *metadata.Material, lods int) (int, error) {
	from, to := s.Node(src), s.Node(dst)
	if from == nil || from.StaticMesh == nil {
		return 0, fmt.Errorf("source %d has no static mesh: %w", src, core.ErrInvalidArgument)
	}
	if to == nil || to.ProcMesh == nil {
		return 0, fmt.Errorf("destination %d has no procedural mesh: %w", dst, core.ErrInvalidArgument)
	}
	if lods <= 0 {
		return 0, fmt.Errorf("converting %d LODs: %w", lods, core.ErrInvalidArgument)
	}
	available := from.StaticMesh.LODCount()
	if available == 0 {
		return 0, fmt.Errorf("static mesh '%s' has no LODs: %w", from.StaticMesh.Name, core.ErrInvalidArgument)
	}
	if lods > available {
		core.LogDebug("Static mesh '%s' has %d LODs, %d requested.", from.StaticMesh.Name, available, lods)
	}

	pm := to.ProcMesh
	pm.ClearAllSections()
	populated := 0
	for lod := 0; lod < math.Clamp(lods, 0, available); lod++ {
		l := from.StaticMesh.LODs[lod]
		if l == nil {
			continue
		}
		created := 0
		for _, section := range l.Sections {
			if section.IsEmpty() {
				continue
			}
			copied := *section
			if material != nil {
				copied.Material = material
			}
			pm.CreateSection(lod, &copied)
			created++
		}
		if created > 0 {
			populated++
		}
	}

	if pm.SectionCount() > 0 {
		if err := s.Cook(dst); err != nil {
			core.LogWarn("Collision cooking for '%s' failed: %v", to.Name(), err)
		}
	}
	core.LogDebug("Converted '%s' into '%s': %d LODs, %d sections.", from.Name(), to.Name(), populated, pm.SectionCount())
	return populated, nil
}
