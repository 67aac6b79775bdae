package surface

import "github.com/matzehuels/edgeknife/pkg/knife"

type pointerHandler struct {
	id uint32
	fn func(*knife.PointerEvent)
}

type keyHandler struct {
	id uint32
	fn func(*knife.KeyEvent)
}

type handlerRegistry struct {
	down   []pointerHandler
	move   []pointerHandler
	up     []pointerHandler
	key    []keyHandler
	nextID uint32
}

func (r *handlerRegistry) pointerList(k Kind) *[]pointerHandler {
	switch k {
	case PointerDown:
		return &r.down
	case PointerMove:
		return &r.move
	default:
		return &r.up
	}
}

func (r *handlerRegistry) addPointer(k Kind, fn func(*knife.PointerEvent)) Handle {
	r.nextID++
	list := r.pointerList(k)
	*list = append(*list, pointerHandler{id: r.nextID, fn: fn})
	return Handle{id: r.nextID, reg: r, kind: k}
}

func (r *handlerRegistry) addKey(fn func(*knife.KeyEvent)) Handle {
	r.nextID++
	r.key = append(r.key, keyHandler{id: r.nextID, fn: fn})
	return Handle{id: r.nextID, reg: r, key: true}
}

// Handle removes a registered callback.
type Handle struct {
	id   uint32
	reg  *handlerRegistry
	kind Kind
	key  bool
}

// Remove unregisters the callback. Removing twice is harmless.
func (h Handle) Remove() {
	if h.reg == nil {
		return
	}
	if h.key {
		for i, kh := range h.reg.key {
			if kh.id == h.id {
				h.reg.key = append(h.reg.key[:i:i], h.reg.key[i+1:]...)
				return
			}
		}
		return
	}
	list := h.reg.pointerList(h.kind)
	for i, ph := range *list {
		if ph.id == h.id {
			*list = append((*list)[:i:i], (*list)[i+1:]...)
			return
		}
	}
}
