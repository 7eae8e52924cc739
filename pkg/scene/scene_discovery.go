package scene

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// ErrUnknownScene is returned by New for names that are not registered
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by New
	DisplayName string `json:"displayName"` // Human readable name
	Description string `json:"description"`
}

type builder struct {
	info  SceneInfo
	build func(random *rand.Rand) *Scene
}

var builtins = map[string]builder{
	"random": {
		info: SceneInfo{
			ID:          "random",
			DisplayName: "Random Spheres",
			Description: "Hundreds of small random spheres around a glass, a diffuse and a metal sphere",
		},
		build: NewRandomScene,
	},
	"simple": {
		info: SceneInfo{
			ID:          "simple",
			DisplayName: "Simple",
			Description: "Glass, diffuse and metal spheres in a row",
		},
		build: func(*rand.Rand) *Scene { return NewSimpleScene() },
	},
	"single": {
		info: SceneInfo{
			ID:          "single",
			DisplayName: "Single Sphere",
			Description: "One diffuse sphere in front of the camera",
		},
		build: func(*rand.Rand) *Scene { return NewSingleSphereScene() },
	},
}

// ListScenes returns the built-in scenes sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		scenes = append(scenes, b.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// New builds the named scene. random is only consumed by procedural scenes.
func New(name string, random *rand.Rand) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return b.build(random), nil
}
