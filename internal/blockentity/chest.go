package blockentity

import (
	"github.com/go-mclib/server/internal/blockpos"
	"github.com/go-mclib/server/internal/nbt"
)

const ChestResourceLocation = "minecraft:chest"
const chestSlots = 27

// Chest is a 27-slot container block entity.
type Chest struct {
	Base
	items [chestSlots]ItemStack
}

func NewChest(pos blockpos.BlockPos) *Chest {
	return &Chest{Base: Base{Pos: pos}}
}

func (c *Chest) ResourceLocation() string { return ChestResourceLocation }

func (c *Chest) WriteNBT(out *nbt.Compound) {
	items := nbt.List{ElemType: nbt.TypeCompound}
	for i, stack := range c.items {
		if stack.IsEmpty() {
			continue
		}
		entry := nbt.NewCompound()
		entry.PutByte("Slot", int8(i))
		entry.PutString("id", stack.Item)
		entry.PutInt("count", stack.Count)
		items.Items = append(items.Items, entry)
	}
	out.PutList("Items", items)
}

func chestFromNBT(in *nbt.Compound) BlockEntity {
	c := NewChest(positionFromNBT(in))
	if items, ok := in.GetList("Items"); ok {
		for _, item := range items.Items {
			entry, ok := item.(*nbt.Compound)
			if !ok {
				continue
			}
			slot, _ := entry.GetByte("Slot")
			id, _ := entry.GetString("id")
			count, _ := entry.GetInt("count")
			if int(slot) >= 0 && int(slot) < chestSlots {
				c.items[slot] = ItemStack{Item: id, Count: count}
			}
		}
	}
	return c
}

func (c *Chest) Inventory() Inventory { return c }

func (c *Chest) Size() int { return chestSlots }

func (c *Chest) Slot(i int) ItemStack { return c.items[i] }

func (c *Chest) SetSlot(i int, s ItemStack) {
	c.items[i] = s
	c.MarkDirty()
}
