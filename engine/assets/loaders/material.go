package loaders

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spaghettifunk/meshops/engine/core"
	"github.com/spaghettifunk/meshops/engine/math"
	"github.com/spaghettifunk/meshops/engine/metadata"
)

// MaterialLoader reads .amt material files: "key = value" lines, '#'
// comments.
type MaterialLoader struct{}

func (ml *MaterialLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open material %q", path)
	}
	defer file.Close()

	material, err := parseAMT(bufio.NewScanner(file))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to parse material %q", path)
	}
	return &metadata.Resource{
		Name:     material.Name,
		FullPath: path,
		Type:     metadata.ResourceTypeMaterial,
		Data:     material,
	}, nil
}

func (ml *MaterialLoader) Unload(*metadata.Resource) error {
	return nil
}

func parseAMT(scanner *bufio.Scanner) (*metadata.Material, error) {
	material := metadata.NewMaterial("")

	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if strings.HasPrefix(text, "#") || text == "" {
			continue
		}

		key, value, found := strings.Cut(text, "=")
		if !found {
			core.LogWarn("Skipping invalid material line %d: %s", line, text)
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "name":
			material.Name = value
		case "diffuse_colour":
			colour, err := parseVec4(value)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", line)
			}
			material.DiffuseColour = colour
		default:
			core.LogDebug("Unknown material key '%s' on line %d. Skipping...", key, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := validateMaterial(material); err != nil {
		return nil, err
	}
	return material, nil
}

func parseVec4(value string) (math.Vec4, error) {
	fields := strings.Fields(value)
	if len(fields) != 4 {
		return math.Vec4{}, errors.Errorf("expected 4 values, got %q", value)
	}
	var out [4]float32
	for i, v := range fields {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return math.Vec4{}, errors.Wrapf(err, "invalid colour value %q", v)
		}
		out[i] = float32(f)
	}
	return math.Vec4{X: out[0], Y: out[1], Z: out[2], W: out[3]}, nil
}

func validateMaterial(material *metadata.Material) error {
	if material.Name == "" {
		return errors.New("material name is required")
	}
	// Colour channels are normalized.
	c := material.DiffuseColour
	for _, v := range []float32{c.X, c.Y, c.Z, c.W} {
		if v < 0 || v > 1 {
			return errors.New("diffuse_colour values must be between 0.0 and 1.0")
		}
	}
	return nil
}
