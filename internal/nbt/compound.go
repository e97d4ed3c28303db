package nbt

// Compound is an ordered sequence of (name, tag) pairs. Put is idempotent on a
// duplicate name: the first write wins and later writes are silently dropped, matching
// the source server's behavior. Iteration order equals insertion order.
type Compound struct {
	order []string
	tags  map[string]Tag
}

func NewCompound() *Compound {
	return &Compound{tags: make(map[string]Tag)}
}

func (c *Compound) Type() Type    { return TypeCompound }
func (c *Compound) Len() int      { return len(c.order) }
func (c *Compound) IsEmpty() bool { return len(c.order) == 0 }

// Names returns the child names in insertion order. Callers must not mutate it.
func (c *Compound) Names() []string { return c.order }

// Put inserts name=tag, or does nothing if name is already present. Returns true if
// the insert took effect.
func (c *Compound) Put(name string, tag Tag) bool {
	if c.tags == nil {
		c.tags = make(map[string]Tag)
	}
	if _, exists := c.tags[name]; exists {
		return false
	}
	c.order = append(c.order, name)
	c.tags[name] = tag
	return true
}

// Set overwrites name=tag unconditionally, preserving its original position if it
// already existed. Unlike Put this is not first-write-wins; it exists for callers
// that need to update a field they own outright.
func (c *Compound) Set(name string, tag Tag) {
	if c.tags == nil {
		c.tags = make(map[string]Tag)
	}
	if _, exists := c.tags[name]; !exists {
		c.order = append(c.order, name)
	}
	c.tags[name] = tag
}

func (c *Compound) Get(name string) (Tag, bool) {
	t, ok := c.tags[name]
	return t, ok
}

func (c *Compound) Delete(name string) {
	if _, ok := c.tags[name]; !ok {
		return
	}
	delete(c.tags, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Compound) String() string {
	s := "{"
	for i, name := range c.order {
		if i > 0 {
			s += ", "
		}
		s += name + ": " + c.tags[name].String()
	}
	return s + "}"
}

// Clone returns a shallow copy: array and compound children are shared, so callers
// that mutate nested compounds in place should Clone those too.
func (c *Compound) Clone() *Compound {
	out := NewCompound()
	out.order = append([]string(nil), c.order...)
	out.tags = make(map[string]Tag, len(c.tags))
	for k, v := range c.tags {
		out.tags[k] = v
	}
	return out
}

// Typed accessors. Each returns the zero value and false if the name is absent or
// holds a tag of a different type, matching the source's Option-returning getters.

func (c *Compound) GetByte(name string) (int8, bool) {
	if t, ok := c.tags[name].(Byte); ok {
		return int8(t), true
	}
	return 0, false
}

func (c *Compound) GetShort(name string) (int16, bool) {
	if t, ok := c.tags[name].(Short); ok {
		return int16(t), true
	}
	return 0, false
}

func (c *Compound) GetInt(name string) (int32, bool) {
	if t, ok := c.tags[name].(Int); ok {
		return int32(t), true
	}
	return 0, false
}

func (c *Compound) GetLong(name string) (int64, bool) {
	if t, ok := c.tags[name].(Long); ok {
		return int64(t), true
	}
	return 0, false
}

func (c *Compound) GetFloat(name string) (float32, bool) {
	if t, ok := c.tags[name].(Float); ok {
		return float32(t), true
	}
	return 0, false
}

func (c *Compound) GetDouble(name string) (float64, bool) {
	if t, ok := c.tags[name].(Double); ok {
		return float64(t), true
	}
	return 0, false
}

func (c *Compound) GetString(name string) (string, bool) {
	if t, ok := c.tags[name].(String); ok {
		return string(t), true
	}
	return "", false
}

func (c *Compound) GetByteArray(name string) ([]byte, bool) {
	if t, ok := c.tags[name].(ByteArray); ok {
		return []byte(t), true
	}
	return nil, false
}

func (c *Compound) GetIntArray(name string) ([]int32, bool) {
	if t, ok := c.tags[name].(IntArray); ok {
		return []int32(t), true
	}
	return nil, false
}

func (c *Compound) GetLongArray(name string) ([]int64, bool) {
	if t, ok := c.tags[name].(LongArray); ok {
		return []int64(t), true
	}
	return nil, false
}

func (c *Compound) GetList(name string) (List, bool) {
	if t, ok := c.tags[name].(List); ok {
		return t, true
	}
	return List{}, false
}

func (c *Compound) GetCompound(name string) (*Compound, bool) {
	if t, ok := c.tags[name].(*Compound); ok {
		return t, true
	}
	return nil, false
}

// Convenience putters mirroring the source's put_byte/put_int/... family.

func (c *Compound) PutByte(name string, v int8) { c.Put(name, Byte(v)) }

func (c *Compound) PutBool(name string, v bool) {
	if v {
		c.Put(name, Byte(1))
	} else {
		c.Put(name, Byte(0))
	}
}

func (c *Compound) PutShort(name string, v int16)        { c.Put(name, Short(v)) }
func (c *Compound) PutInt(name string, v int32)          { c.Put(name, Int(v)) }
func (c *Compound) PutLong(name string, v int64)         { c.Put(name, Long(v)) }
func (c *Compound) PutFloat(name string, v float32)      { c.Put(name, Float(v)) }
func (c *Compound) PutDouble(name string, v float64)     { c.Put(name, Double(v)) }
func (c *Compound) PutString(name string, v string)      { c.Put(name, String(v)) }
func (c *Compound) PutByteArray(name string, v []byte)   { c.Put(name, ByteArray(v)) }
func (c *Compound) PutIntArray(name string, v []int32)   { c.Put(name, IntArray(v)) }
func (c *Compound) PutLongArray(name string, v []int64)  { c.Put(name, LongArray(v)) }
func (c *Compound) PutList(name string, v List)          { c.Put(name, v) }
func (c *Compound) PutCompound(name string, v *Compound) { c.Put(name, v) }
