package catalog

// OnChange registers an observer called synchronously after every
// successful mutating operation. Observers receive no payload and must
// re-query for details.
func (d *Database) OnChange(fn func()) {
	d.observers = append(d.observers, fn)
}

func (d *Database) notifyChanged() {
	for _, fn := range d.observers {
		fn()
	}
}
