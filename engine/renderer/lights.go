package renderer

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-render/engine/light"
)

func (r *renderer) AddDirectionalLight(l light.Light) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.directionalLight != nil {
		panic("renderer: a directional light is already set")
	}
	r.directionalLight = l
}

func (r *renderer) RemoveDirectionalLight(l light.Light) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.directionalLight != l {
		panic("renderer: removing a directional light that is not the current one")
	}
	r.directionalLight = nil
}

func (r *renderer) AddPointLight(l light.Light) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pointLights = addLight(r.pointLights, l)
}

func (r *renderer) RemovePointLight(l light.Light) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pointLights = removeLight(r.pointLights, l)
}

func (r *renderer) RemoveAllPointLights() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pointLights = nil
}

func (r *renderer) AddSpotLight(l light.Light) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spotLights = addLight(r.spotLights, l)
}

func (r *renderer) RemoveSpotLight(l light.Light) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spotLights = removeLight(r.spotLights, l)
}

func (r *renderer) RemoveAllSpotLights() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spotLights = nil
}

func addLight(lights []light.Light, l light.Light) []light.Light {
	if slices.Contains(lights, l) {
		return lights
	}
	return append(lights, l)
}

func removeLight(lights []light.Light, l light.Light) []light.Light {
	return slices.DeleteFunc(lights, func(other light.Light) bool { return other == l })
}
