package blockentity

import (
	"github.com/go-mclib/server/internal/blockpos"
	"github.com/go-mclib/server/internal/nbt"
)

const SignResourceLocation = "minecraft:sign"

// Sign holds up to four lines of text on each of its two faces.
type Sign struct {
	Base
	FrontLines [4]string
	BackLines  [4]string
	Waxed      bool
}

func NewSign(pos blockpos.BlockPos) *Sign {
	return &Sign{Base: Base{Pos: pos}}
}

func (s *Sign) ResourceLocation() string { return SignResourceLocation }

func (s *Sign) WriteNBT(out *nbt.Compound) {
	out.PutCompound("front_text", textCompound(s.FrontLines))
	out.PutCompound("back_text", textCompound(s.BackLines))
	out.PutBool("is_waxed", s.Waxed)
}

func textCompound(lines [4]string) *nbt.Compound {
	c := nbt.NewCompound()
	messages := nbt.List{ElemType: nbt.TypeString}
	for _, line := range lines {
		messages.Items = append(messages.Items, nbt.String(line))
	}
	c.PutList("messages", messages)
	return c
}

func linesFromTextCompound(c *nbt.Compound) [4]string {
	var out [4]string
	messages, ok := c.GetList("messages")
	if !ok {
		return out
	}
	for i, item := range messages.Items {
		if i >= len(out) {
			break
		}
		if s, ok := item.(nbt.String); ok {
			out[i] = string(s)
		}
	}
	return out
}

func signFromNBT(in *nbt.Compound) BlockEntity {
	s := NewSign(positionFromNBT(in))
	if front, ok := in.GetCompound("front_text"); ok {
		s.FrontLines = linesFromTextCompound(front)
	}
	if back, ok := in.GetCompound("back_text"); ok {
		s.BackLines = linesFromTextCompound(back)
	}
	if waxed, ok := in.GetByte("is_waxed"); ok {
		s.Waxed = waxed != 0
	}
	return s
}

// ChunkDataNBT sends the same compact representation over the network; a sign
// has no state that's only meaningful on disk.
func (s *Sign) ChunkDataNBT() *nbt.Compound {
	out := nbt.NewCompound()
	WriteEnvelope(out, s.ResourceLocation(), s.Pos)
	s.WriteNBT(out)
	return out
}
