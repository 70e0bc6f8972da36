// Package reconcile merges realtime events into a local view of entity
// states. Apply is a pure function: consumers hold a Snapshot, feed every
// decoded event through it and render the result, without ever refetching
// in response to an event. Events are hints, not the source of truth, so a
// missed event only means stale state until the next fetch.
package reconcile

import (
	"github.com/campolink/campolink/internal/realtime/event"
)

// EstadoLibre is the state an entity enters when it is released
const EstadoLibre = "libre"

// Entidad is the reconciled view of one lote, cultivo or sublote
type Entidad struct {
	Nombre        string
	Estado        string
	ActualizadoEn string
}

// Snapshot is the client-side view of entity states, keyed by entity ID
type Snapshot struct {
	Lotes    map[int64]Entidad
	Cultivos map[int64]Entidad
	Sublotes map[int64]Entidad
}

// NewSnapshot returns an empty snapshot
func NewSnapshot() Snapshot {
	return Snapshot{
		Lotes:    map[int64]Entidad{},
		Cultivos: map[int64]Entidad{},
		Sublotes: map[int64]Entidad{},
	}
}

// Apply merges one event into the snapshot and returns the result. The
// input snapshot is never mutated. Events for entities the snapshot has
// never seen insert them; payloads without a name keep the known one.
// Payload types that carry no entity state return the snapshot unchanged.
func Apply(s Snapshot, p event.Payload) Snapshot {
	switch e := p.(type) {
	case event.LoteEstado:
		return Snapshot{
			Lotes:    patch(s.Lotes, e.LoteID, e.LoteNombre, e.NuevoEstado, e.Timestamp),
			Cultivos: s.Cultivos,
			Sublotes: s.Sublotes,
		}
	case event.LoteLibre:
		return Snapshot{
			Lotes:    patch(s.Lotes, e.LoteID, e.LoteNombre, EstadoLibre, e.Timestamp),
			Cultivos: s.Cultivos,
			Sublotes: s.Sublotes,
		}
	case event.CultivoEstado:
		return Snapshot{
			Lotes:    s.Lotes,
			Cultivos: patch(s.Cultivos, e.CultivoID, e.CultivoNombre, e.NuevoEstado, e.Timestamp),
			Sublotes: s.Sublotes,
		}
	case event.SubloteEstado:
		return Snapshot{
			Lotes:    s.Lotes,
			Cultivos: s.Cultivos,
			Sublotes: patch(s.Sublotes, e.SubloteID, e.SubloteNombre, e.NuevoEstado, e.Timestamp),
		}
	case event.SubloteLibre:
		return Snapshot{
			Lotes:    s.Lotes,
			Cultivos: s.Cultivos,
			Sublotes: patch(s.Sublotes, e.SubloteID, e.SubloteNombre, EstadoLibre, e.Timestamp),
		}
	default:
		return s
	}
}

// patch returns a copy of m with the entity's estado replaced
func patch(m map[int64]Entidad, id int64, nombre, estado, ts string) map[int64]Entidad {
	out := make(map[int64]Entidad, len(m)+1)
	for k, v := range m {
		out[k] = v
	}

	ent := out[id]
	if nombre != "" {
		ent.Nombre = nombre
	}
	ent.Estado = estado
	ent.ActualizadoEn = ts
	out[id] = ent
	return out
}
