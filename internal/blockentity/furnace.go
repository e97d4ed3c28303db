package blockentity

import (
	"github.com/go-mclib/server/internal/blockpos"
	"github.com/go-mclib/server/internal/nbt"
)

const FurnaceResourceLocation = "minecraft:furnace"

const (
	furnaceSlotInput = 0
	furnaceSlotFuel  = 1
	furnaceSlotOutput = 2
	furnaceSlots     = 3
)

// Furnace smelts an input stack into an output stack using fuel, over time.
type Furnace struct {
	Base
	items         [furnaceSlots]ItemStack
	BurnTime      int16
	CookTime      int16
	CookTimeTotal int16
}

func NewFurnace(pos blockpos.BlockPos) *Furnace {
	return &Furnace{Base: Base{Pos: pos}, CookTimeTotal: 200}
}

func (f *Furnace) ResourceLocation() string { return FurnaceResourceLocation }

func (f *Furnace) WriteNBT(out *nbt.Compound) {
	out.PutShort("BurnTime", f.BurnTime)
	out.PutShort("CookTime", f.CookTime)
	out.PutShort("CookTimeTotal", f.CookTimeTotal)

	items := nbt.List{ElemType: nbt.TypeCompound}
	for i, stack := range f.items {
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

func furnaceFromNBT(in *nbt.Compound) BlockEntity {
	f := NewFurnace(positionFromNBT(in))
	if v, ok := in.GetShort("BurnTime"); ok {
		f.BurnTime = v
	}
	if v, ok := in.GetShort("CookTime"); ok {
		f.CookTime = v
	}
	if v, ok := in.GetShort("CookTimeTotal"); ok {
		f.CookTimeTotal = v
	}
	if items, ok := in.GetList("Items"); ok {
		for _, item := range items.Items {
			entry, ok := item.(*nbt.Compound)
			if !ok {
				continue
			}
			slot, _ := entry.GetByte("Slot")
			id, _ := entry.GetString("id")
			count, _ := entry.GetInt("count")
			if int(slot) >= 0 && int(slot) < furnaceSlots {
				f.items[slot] = ItemStack{Item: id, Count: count}
			}
		}
	}
	return f
}

// Tick burns fuel and advances the cook timer one tick; actual recipe lookup is
// a world-level concern out of scope here.
func (f *Furnace) Tick() {
	if f.items[furnaceSlotInput].IsEmpty() {
		f.CookTime = 0
		return
	}
	if f.BurnTime == 0 {
		if f.items[furnaceSlotFuel].IsEmpty() {
			f.CookTime = 0
			return
		}
		f.BurnTime = 1600
		f.items[furnaceSlotFuel].Count--
		if f.items[furnaceSlotFuel].Count <= 0 {
			f.items[furnaceSlotFuel] = ItemStack{}
		}
		f.MarkDirty()
	}
	f.BurnTime--
	f.CookTime++
	if f.CookTime >= f.CookTimeTotal {
		f.CookTime = 0
		f.items[furnaceSlotInput].Count--
		if f.items[furnaceSlotInput].Count <= 0 {
			f.items[furnaceSlotInput] = ItemStack{}
		}
		f.items[furnaceSlotOutput].Count++
		f.MarkDirty()
	}
}

func (f *Furnace) Inventory() Inventory { return f }

func (f *Furnace) Size() int { return furnaceSlots }

func (f *Furnace) Slot(i int) ItemStack { return f.items[i] }

func (f *Furnace) SetSlot(i int, s ItemStack) {
	f.items[i] = s
	f.MarkDirty()
}
