// reflect.go turns the constants reported by the driver into the program's constant map and
// groups block members into single, struct and array members.
package program

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-render/common"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-render/engine/renderer/uniform"
)

type reflected struct {
	uniforms         map[string]*uniform.Info
	blocks           map[string]*uniform.Block
	blockCounts      map[uniform.Category]int
	defaultBlockSize int
}

func reflectConstants(active []gpu.ActiveUniform, activeBlocks []gpu.ActiveUniformBlock) reflected {
	r := reflected{
		uniforms:    map[string]*uniform.Info{},
		blocks:      map[string]*uniform.Block{},
		blockCounts: map[uniform.Category]int{},
	}

	sortedBlocks := slices.Clone(activeBlocks)
	slices.SortFunc(sortedBlocks, func(a, b gpu.ActiveUniformBlock) int { return cmp.Compare(a.Index, b.Index) })

	byIndex := map[uint32]*uniform.Block{}
	running := 0
	for _, b := range sortedBlocks {
		block := uniform.NewBlock(b.Name, b.Index, int(b.DataSize))
		block.Offset = running
		running += int(b.DataSize)
		byIndex[b.Index] = block
		r.blocks[b.Name] = block
		r.blockCounts[block.Category]++
	}

	sortedUniforms := slices.Clone(active)
	slices.SortFunc(sortedUniforms, func(a, b gpu.ActiveUniform) int { return cmp.Compare(a.Index, b.Index) })

	for _, u := range sortedUniforms {
		info := &uniform.Info{
			Name:        u.Name,
			Location:    u.Location,
			BlockIndex:  u.BlockIndex,
			Size:        u.Type.Size(),
			ArrayCount:  max(int(u.ArraySize), 1),
			ArrayStride: int(u.ArrayStride),
			Type:        u.Type,
			Annotation:  uniform.NoAnnotation,
		}

		if u.BlockIndex < 0 {
			info.Offset = r.defaultBlockSize
			r.defaultBlockSize += info.Size * info.ArrayCount
		} else if block, ok := byIndex[uint32(u.BlockIndex)]; ok {
			if !strings.HasPrefix(info.Name, block.Name+".") {
				info.Name = block.Name + "." + info.Name
			}
			info.Offset = int(u.Offset)
			info.IsBufferMember = true
			block.Members = append(block.Members, info)
		}
		info.EditorName = uniform.EditorName(info.Name)
		r.uniforms[info.Name] = info
	}

	for _, block := range r.blocks {
		slices.SortFunc(block.Members, func(a, b *uniform.Info) int { return cmp.Compare(a.Offset, b.Offset) })
		groupMembers(block)
	}
	return r
}

// groupMembers sorts the members of a block into singles, structs and arrays.
// Bracketed names form arrays and dotted names form structs. Struct sizes are rounded up to 16 bytes.
func groupMembers(block *uniform.Block) {
	prefix := block.Name + "."
	for _, m := range block.Members {
		local := strings.TrimPrefix(m.Name, prefix)

		bracket := strings.IndexByte(local, '[')
		dot := strings.IndexByte(local, '.')
		switch {
		case bracket >= 0 && (dot < 0 || bracket < dot):
			name := local[:bracket]
			if _, done := block.Arrays[name]; !done {
				block.Arrays[name] = groupArray(block, name)
			}
		case dot >= 0:
			name := local[:dot]
			if _, done := block.Structs[name]; !done {
				block.Structs[name] = groupStruct(block, name)
			}
		default:
			block.Singles[local] = m
		}
	}
}

func membersWithPrefix(block *uniform.Block, localPrefix string) []*uniform.Info {
	var members []*uniform.Info
	full := block.Name + "." + localPrefix
	for _, m := range block.Members {
		if strings.HasPrefix(m.Name, full) {
			members = append(members, m)
		}
	}
	return members
}

func extent(members []*uniform.Info) int {
	first, last := members[0], members[len(members)-1]
	return last.Offset + last.TotalSize() - first.Offset
}

func groupStruct(block *uniform.Block, name string) *uniform.Aggregate {
	members := membersWithPrefix(block, name+".")
	return &uniform.Aggregate{
		Name:         name,
		EditorName:   uniform.EditorName(name),
		Offset:       members[0].Offset,
		Size:         common.RoundUp(16, extent(members)),
		ElementCount: 1,
		Members:      members,
	}
}

func groupArray(block *uniform.Block, name string) *uniform.Aggregate {
	entries := membersWithPrefix(block, name+"[")
	first := entries[0]

	if len(entries) == 1 && first.ArrayCount > 1 && !strings.Contains(strings.TrimPrefix(first.Name, block.Name+"."+name), ".") {
		stride := first.ArrayStride
		if stride == 0 {
			stride = common.RoundUp(16, first.Size)
		}
		return &uniform.Aggregate{
			Name:         name,
			EditorName:   uniform.EditorName(name + "[0]"),
			Offset:       first.Offset,
			Size:         stride * first.ArrayCount,
			Stride:       stride,
			ElementCount: first.ArrayCount,
			Members:      entries,
		}
	}

	element := membersWithPrefix(block, name+"[0]")
	if len(element) == 0 {
		element = entries[:1]
	}
	count := max(len(entries)/len(element), 1)

	stride := common.RoundUp(16, extent(element))
	if count > 1 {
		if second := membersWithPrefix(block, name+"[1]"); len(second) > 0 {
			stride = second[0].Offset - first.Offset
		}
	}

	return &uniform.Aggregate{
		Name:         name,
		EditorName:   uniform.EditorName(name + "[0]"),
		Offset:       first.Offset,
		Size:         stride * count,
		Stride:       stride,
		ElementCount: count,
		Members:      element,
	}
}
