package renderer

import "slices"

func (r *renderer) SetShaderGlobal(block, member string, value any) error {
	return r.globals.Set(block, member, value)
}

func (r *renderer) SetShaderGlobalArrayElement(block, array string, index int, value any) error {
	return r.globals.SetArrayElement(block, array, index, value)
}

func (r *renderer) SetShaderGlobalStruct(block, structName string, value any) error {
	return r.globals.SetStruct(block, structName, value)
}

func (r *renderer) ShaderGlobal(block string) ([]byte, bool) {
	data, ok := r.globals.Mirror(block)
	return slices.Clone(data), ok
}
