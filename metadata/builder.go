// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metadata resolves the raw blueprint records into an immutable
// entity metadata graph.
//
// The builder runs a fixed pass pipeline: skeletons, inheritance linking, own
// members, derived sets, relation resolution, join materialization, closure
// expansion, discriminator indices, explicit foreign keys and finalization.
// The passes are ordered so every pass only reads state settled by an earlier
// one - the resolved Set is published once and never mutated afterwards.
package metadata

import (
	"fmt"
	"strings"

	"github.com/patrickascher/relmeta/blueprint"
	"github.com/patrickascher/relmeta/dialect"
	"github.com/patrickascher/relmeta/dialect/types"
	"github.com/patrickascher/relmeta/naming"
	"github.com/patrickascher/relmeta/slicer"
	"github.com/patrickascher/relmeta/stringer"
	"github.com/sirupsen/logrus"
)

// Error messages.
var (
	ErrRelationTarget    = "metadata: relation target %s of %s can not be resolved"
	ErrInverseSide       = "metadata: inverse side %s does not exist on %s (declared by %s)"
	ErrInheritanceCycle  = "metadata: inheritance cycle detected at %s"
	ErrInheritanceParent = "metadata: no single table inheritance parent found for %s"
	ErrClassTableKey     = "metadata: class table parent %s of %s has no primary key to share"
	ErrEmbeddedCycle     = "metadata: embedded cycle detected at %s (%s)"
	ErrColumnType        = "metadata: unknown column type %s of %s"
	ErrConstraintColumn  = "metadata: %s column %s does not exist in %s"
	ErrForeignKeyTarget  = "metadata: foreign key of %s references unknown entity %s"
	ErrDuplicateColumn   = "metadata: column name %s is not unique in table %s"
)

// Builder resolves a blueprint record store into an entity metadata set.
type Builder struct {
	store   *blueprint.Store
	dialect dialect.Dialect
	naming  naming.Strategy
	log     logrus.FieldLogger
}

// Option configures the builder.
type Option func(*Builder)

// WithNaming overrides the default naming strategy.
func WithNaming(n naming.Strategy) Option {
	return func(b *Builder) {
		b.naming = n
	}
}

// WithLogger overrides the default logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Builder) {
		b.log = l
	}
}

// New creates a builder over the given record store and dialect.
// Without options the default naming strategy is created with the dialect
// maximum identifier length and warnings go to the logrus standard logger.
func New(store *blueprint.Store, d dialect.Dialect, opts ...Option) *Builder {
	b := &Builder{store: store, dialect: d}
	for _, opt := range opts {
		opt(b)
	}
	if b.naming == nil {
		b.naming = naming.New(d.Capabilities().MaxIdentifierLength)
	}
	if b.log == nil {
		b.log = logrus.StandardLogger()
	}
	return b
}

// Build resolves the given targets into an immutable metadata set.
// Without targets every registered table record is resolved. The build is
// deterministic - identical records always resolve to the identical set,
// which keeps schema diffing stable.
func (b *Builder) Build(targets ...string) (*Set, error) {
	set := newSet()

	for _, t := range b.store.Tables(targets...) {
		if err := set.add(b.newEntity(t)); err != nil {
			return nil, err
		}
	}
	if err := b.linkInheritance(set); err != nil {
		return nil, err
	}
	if err := b.buildMembers(set); err != nil {
		return nil, err
	}
	if err := b.linkClassTables(set); err != nil {
		return nil, err
	}
	for _, e := range set.entities {
		if err := b.computeDerived(e); err != nil {
			return nil, err
		}
	}
	if err := b.resolveRelations(set); err != nil {
		return nil, err
	}
	if err := b.materializeJoins(set); err != nil {
		return nil, err
	}
	if err := b.expandClosures(set); err != nil {
		return nil, err
	}
	b.indexDiscriminators(set)
	if err := b.materializeForeignKeys(set); err != nil {
		return nil, err
	}
	if err := b.finalize(set); err != nil {
		return nil, err
	}
	return set, nil
}

// newEntity creates the entity skeleton of a table record.
func (b *Builder) newEntity(t blueprint.Table) *Entity {
	e := &Entity{
		Target:             t.Target,
		Name:               b.naming.TableName(t.Target, t.Name),
		Kind:               t.Kind,
		Inheritance:        t.Inheritance,
		Tree:               t.Tree,
		Ancestors:          t.Ancestors,
		DiscriminatorValue: t.DiscriminatorValue,
		properties:         map[string]*Column{},
		discriminatorName:  b.naming.DiscriminatorName(t.Discriminator),
	}
	if e.DiscriminatorValue == "" {
		e.DiscriminatorValue = stringer.CamelToSnake(bareTarget(t.Target))
	}
	return e
}

// linkInheritance wires every entity child to its nearest mapped single table
// ancestor. The child shares the parent table name. Error will return on a
// cyclic ancestor chain or a child without a mapped single table root.
func (b *Builder) linkInheritance(set *Set) error {
	for _, e := range set.entities {
		// a target listed in its own ancestor chain can never resolve.
		if _, ok := slicer.StringExists(e.Ancestors, e.Target); ok {
			return fmt.Errorf(ErrInheritanceCycle, e.Target)
		}
	}
	for _, e := range set.entities {
		if e.Kind != blueprint.KindEntityChild {
			continue
		}
		for _, a := range e.Ancestors {
			if candidate, ok := set.byTarget[a]; ok && candidate.Inheritance == blueprint.InheritanceSingleTable {
				e.Parent = candidate
				break
			}
		}
		if e.Parent == nil {
			return fmt.Errorf(ErrInheritanceParent, e.Target)
		}
		e.Parent.Children = append(e.Parent.Children, e)
		e.Name = e.Parent.Name
	}
	// walking the parent chain must terminate.
	for _, e := range set.entities {
		seen := map[*Entity]bool{}
		for p := e.Parent; p != nil; p = p.Parent {
			if seen[p] {
				return fmt.Errorf(ErrInheritanceCycle, e.Target)
			}
			seen[p] = true
		}
	}
	return nil
}

// buildMembers resolves the own columns, embeds, relations and constraint
// records of every entity. Inheritance roots are resolved before their
// children - a child shares the parent column instances and appends its own
// members to both sides.
func (b *Builder) buildMembers(set *Set) error {
	var children []*Entity
	for _, e := range set.entities {
		if e.Kind == blueprint.KindEntityChild {
			children = append(children, e)
			continue
		}
		if err := b.buildOwnMembers(set, e); err != nil {
			return err
		}
	}
	done := map[*Entity]bool{}
	for len(children) > 0 {
		var pending []*Entity
		progress := false
		for _, c := range children {
			if c.Parent.Kind != blueprint.KindEntityChild || done[c.Parent] {
				if err := b.buildOwnMembers(set, c); err != nil {
					return err
				}
				done[c] = true
				progress = true
				continue
			}
			pending = append(pending, c)
		}
		if !progress {
			return fmt.Errorf(ErrInheritanceCycle, pending[0].Target)
		}
		children = pending
	}
	return nil
}

// linkClassTables wires every entity whose nearest mapped ancestor declares
// class table inheritance to its parent. Each class keeps its own physical
// table - the parent primary key columns are mirrored into the child and a
// foreign key links both tables, the remaining members are not duplicated.
func (b *Builder) linkClassTables(set *Set) error {
	pending := map[*Entity]bool{}
	var order []*Entity
	for _, e := range set.entities {
		if e.Kind == blueprint.KindEntityChild {
			continue
		}
		for _, a := range e.Ancestors {
			p := set.lookup(a)
			if p == nil {
				continue
			}
			if p.Inheritance == blueprint.InheritanceClassTable {
				e.Parent = p
				p.Children = append(p.Children, e)
				pending[e] = true
				order = append(order, e)
			}
			break
		}
	}
	// a parent may mirror its own key first, deeper hierarchies resolve in
	// ancestor order.
	for len(order) > 0 {
		var waiting []*Entity
		progress := false
		for _, e := range order {
			if pending[e.Parent] {
				waiting = append(waiting, e)
				continue
			}
			if err := b.mirrorPrimaryKey(e); err != nil {
				return err
			}
			delete(pending, e)
			progress = true
		}
		if !progress {
			return fmt.Errorf(ErrInheritanceCycle, waiting[0].Target)
		}
		order = waiting
	}
	return nil
}

// mirrorPrimaryKey copies the parent primary key columns into a class table
// child and appends the linking foreign key. A user mapped property with the
// identical column name is reused instead of duplicated.
func (b *Builder) mirrorPrimaryKey(e *Entity) error {
	var pks []*Column
	for _, c := range e.Parent.Columns {
		if c.Information.PrimaryKey {
			pks = append(pks, c)
		}
	}
	if len(pks) == 0 {
		return fmt.Errorf(ErrClassTableKey, e.Parent.Target, e.Target)
	}

	var cols []*Column
	for _, pk := range pks {
		c, err := e.ColumnByName(pk.Information.Name)
		if err != nil {
			c = &Column{Entity: e, Name: pk.Name, Path: pk.Path, Mode: blueprint.ModeRegular}
			c.Information = dialect.Column{
				Table:     e.Name,
				Name:      pk.Information.Name,
				Type:      pk.Information.Type,
				Length:    pk.Information.Length,
				Precision: pk.Information.Precision,
				Scale:     pk.Information.Scale,
			}
			e.addColumn(c)
		}
		// the key value comes from the parent row, it is never generated here.
		c.Information.PrimaryKey = true
		c.Information.NullAble = false
		c.Information.Autoincrement = false
		cols = append(cols, c)
	}

	e.ForeignKeys = append(e.ForeignKeys, &ForeignKey{
		Entity:            e,
		Columns:           cols,
		Referenced:        e.Parent,
		ReferencedColumns: pks,
	})
	return nil
}

// memberTargets returns the record targets contributing members to the
// entity: unmapped abstract ancestors root-first, the own target last. The
// walk stops at the first mapped ancestor - its members live in its own
// table (shared by single table children, linked by key for class table
// children) and must not be duplicated.
func (b *Builder) memberTargets(set *Set, e *Entity) []string {
	var unmapped []string
	for _, a := range e.Ancestors {
		if set.lookup(a) != nil {
			break
		}
		unmapped = append(unmapped, a)
	}
	rv := make([]string, 0, len(unmapped)+1)
	for i := len(unmapped) - 1; i >= 0; i-- {
		rv = append(rv, unmapped[i])
	}
	return append(rv, e.Target)
}

// buildOwnMembers resolves all member records of one entity.
func (b *Builder) buildOwnMembers(set *Set, e *Entity) error {
	child := e.Kind == blueprint.KindEntityChild
	if child {
		// share the inherited column and relation instances. The parent list
		// also carries members contributed by earlier built siblings, those
		// stay out of this child.
		for _, c := range e.Parent.Columns {
			if !inherited(e, c.Entity) {
				continue
			}
			e.Columns = append(e.Columns, c)
			if c.Path != "" {
				e.properties[c.Path] = c
			}
		}
		for _, r := range e.Parent.Relations {
			if inherited(e, r.Entity) {
				e.Relations = append(e.Relations, r)
			}
		}
	}

	targets := b.memberTargets(set, e)

	for _, arg := range b.store.Columns(targets...) {
		if child {
			// a redeclared parent property keeps the shared instance.
			if _, ok := e.properties[arg.Property]; ok {
				continue
			}
		}
		c, err := b.buildColumn(e, arg, nil, "", child)
		if err != nil {
			return err
		}
		e.addColumn(c)
	}
	for _, arg := range b.store.Embeddeds(targets...) {
		emb, err := b.buildEmbedded(e, nil, arg, nil, "", child, map[string]bool{e.Target: true})
		if err != nil {
			return err
		}
		e.Embeddeds = append(e.Embeddeds, emb)
	}
	if !child {
		if e.Inheritance == blueprint.InheritanceSingleTable {
			b.buildDiscriminator(e)
		}
		b.buildTreeColumns(e)
	}
	for _, arg := range b.store.Relations(targets...) {
		r := b.newRelation(e, arg, "")
		e.Relations = append(e.Relations, r)
		if child {
			e.Parent.Relations = append(e.Parent.Relations, r)
		}
	}
	for _, arg := range b.store.Indexes(targets...) {
		e.Indexes = append(e.Indexes, &Index{Entity: e, Name: arg.Name, Fields: arg.Columns, Unique: arg.Unique, Where: arg.Where})
	}
	for _, arg := range b.store.Uniques(targets...) {
		e.Uniques = append(e.Uniques, &Unique{Entity: e, Name: arg.Name, Fields: arg.Columns})
	}
	for _, arg := range b.store.Checks(targets...) {
		e.Checks = append(e.Checks, &Check{Entity: e, Name: arg.Name, Expression: arg.Expression})
	}
	for _, arg := range b.store.Exclusions(targets...) {
		e.Exclusions = append(e.Exclusions, &Exclusion{Entity: e, Name: arg.Name, Expression: arg.Expression})
	}
	e.fkArgs = b.store.ForeignKeys(targets...)
	for _, arg := range b.store.Listeners(targets...) {
		e.Listeners = append(e.Listeners, Listener{Method: arg.Method, Event: arg.Event})
	}
	return nil
}

// buildColumn resolves one column record.
// A forced nullable is applied for single table child members - the shared
// table also holds rows of other subtypes which have no value for them.
func (b *Builder) buildColumn(e *Entity, arg blueprint.Column, prefixes []string, pathPrefix string, forceNullable bool) (*Column, error) {
	t, err := b.columnType(e, arg)
	if err != nil {
		return nil, err
	}
	b.checkCapabilities(e, arg.Property, t)

	path := arg.Property
	if pathPrefix != "" {
		path = pathPrefix + "." + arg.Property
	}
	nullable := arg.Nullable
	if forceNullable && !arg.Primary {
		nullable = true
	}

	c := &Column{
		Entity:       e,
		Name:         arg.Property,
		Path:         path,
		Generated:    arg.Generated,
		Virtual:      arg.Mode == blueprint.ModeVirtual,
		Mode:         arg.Mode,
		Transformers: arg.Transformers,
	}
	c.Information = dialect.Column{
		Table:         e.Name,
		Name:          b.naming.ColumnName(arg.Property, arg.Name, prefixes),
		Type:          t,
		NullAble:      nullable,
		PrimaryKey:    arg.Primary,
		Unique:        arg.Unique,
		Array:         arg.Array,
		Autoincrement: arg.Generated == dialect.GeneratedIncrement,
	}
	if arg.HasDefault || arg.Default != "" {
		c.Information.DefaultValue = dialect.NewNullString(arg.Default, true)
	}
	if arg.Length > 0 {
		c.Information.Length = dialect.NewNullInt(int64(arg.Length), true)
	}
	if arg.Precision > 0 {
		c.Information.Precision = dialect.NewNullInt(int64(arg.Precision), true)
		c.Information.Scale = dialect.NewNullInt(int64(arg.Scale), true)
	}
	return c, nil
}

// columnType resolves the sanitized type of a column record.
// An empty type with a generation strategy is inferred by the dialect, an
// empty type with enum members becomes an enum, everything else falls back
// to text.
func (b *Builder) columnType(e *Entity, arg blueprint.Column) (types.Interface, error) {
	if arg.Type == "" && arg.Generated != dialect.GeneratedNone {
		if t := b.dialect.TypeFor(arg.Generated); t != nil {
			return t, nil
		}
	}
	switch arg.Type {
	case types.BOOL:
		return types.NewBool(arg.Raw), nil
	case types.INTEGER:
		return types.NewInt(arg.Raw), nil
	case types.FLOAT:
		return types.NewFloat(arg.Raw), nil
	case types.DECIMAL:
		t := types.NewDecimal(arg.Raw)
		t.Precision = arg.Precision
		t.Scale = arg.Scale
		return t, nil
	case types.TEXT:
		t := types.NewText(arg.Raw)
		t.Size = arg.Length
		return t, nil
	case types.TEXTAREA:
		t := types.NewTextArea(arg.Raw)
		t.Size = arg.Length
		return t, nil
	case types.TIME:
		return types.NewTime(arg.Raw), nil
	case types.DATE:
		return types.NewDate(arg.Raw), nil
	case types.DATETIME:
		return types.NewDateTime(arg.Raw), nil
	case types.DATETIMETZ:
		return types.NewDateTimeTz(arg.Raw), nil
	case types.JSON:
		return types.NewJson(arg.Raw), nil
	case types.SIMPLEARRAY:
		return types.NewSimpleArray(arg.Raw), nil
	case types.SIMPLEJSON:
		return types.NewSimpleJSON(arg.Raw), nil
	case types.ENUM:
		return types.NewEnum(arg.Raw, arg.Enum, arg.EnumNumeric), nil
	case types.UUID:
		return types.NewUuid(arg.Raw), nil
	case types.SPATIAL:
		return types.NewSpatial(arg.Raw), nil
	case types.HSTORE:
		return types.NewHStore(arg.Raw), nil
	case types.LTREE:
		return types.NewLTree(arg.Raw), nil
	case types.CUBE:
		return types.NewCube(arg.Raw), nil
	case types.CUSTOM:
		return types.NewCustom(arg.Raw), nil
	case "":
		if len(arg.Enum) > 0 {
			return types.NewEnum(arg.Raw, arg.Enum, arg.EnumNumeric), nil
		}
		return types.NewText(arg.Raw), nil
	}
	return nil, fmt.Errorf(ErrColumnType, arg.Type, e.fqdn(arg.Property))
}

// checkCapabilities logs a warning for a column type the dialect can not
// store or an extension backed type the adapter can not provision. The build
// continues - the schema may be managed externally.
func (b *Builder) checkCapabilities(e *Entity, property string, t types.Interface) {
	caps := b.dialect.Capabilities()
	kind := t.Kind()
	if !caps.Supports(kind) {
		b.log.WithFields(logrus.Fields{
			"entity":   e.Target,
			"property": property,
			"type":     kind,
		}).Warning("metadata: column type is not supported by the dialect")
	}
	if ext, ok := extensionOf(kind); ok && !caps.HasExtension(ext) {
		b.log.WithFields(logrus.Fields{
			"entity":    e.Target,
			"property":  property,
			"extension": ext,
		}).Warning("metadata: required database extension can not be provisioned by the adapter")
	}
}

// extensionOf maps an extension backed type kind to its extension name.
func extensionOf(kind string) (string, bool) {
	switch kind {
	case types.HSTORE:
		return "hstore", true
	case types.LTREE:
		return "ltree", true
	case types.CUBE:
		return "cube", true
	case types.SPATIAL:
		return "postgis", true
	}
	return "", false
}

// buildEmbedded resolves one embedded record and flattens its columns and
// relations into the owning entity. Name prefixes and property paths stack
// independently for nested embeds.
func (b *Builder) buildEmbedded(e *Entity, parent *Embedded, arg blueprint.Embedded, prefixes []string, pathPrefix string, forceNullable bool, visited map[string]bool) (*Embedded, error) {
	if visited[arg.EmbeddedTarget] {
		return nil, fmt.Errorf(ErrEmbeddedCycle, arg.EmbeddedTarget, e.Target)
	}
	visited[arg.EmbeddedTarget] = true
	defer delete(visited, arg.EmbeddedTarget)

	prefix := arg.Property
	if arg.HasPrefix {
		prefix = arg.Prefix
	}
	path := arg.Property
	if pathPrefix != "" {
		path = pathPrefix + "." + arg.Property
	}

	emb := &Embedded{Entity: e, Field: path, Prefix: prefix, Target: arg.EmbeddedTarget, Parent: parent}

	childPrefixes := prefixes
	if prefix != "" {
		childPrefixes = append(append([]string{}, prefixes...), prefix)
	}

	for _, carg := range b.store.Columns(arg.EmbeddedTarget) {
		c, err := b.buildColumn(e, carg, childPrefixes, path, forceNullable)
		if err != nil {
			return nil, err
		}
		emb.Columns = append(emb.Columns, c)
		e.addColumn(c)
	}
	for _, rarg := range b.store.Relations(arg.EmbeddedTarget) {
		r := b.newRelation(e, rarg, path)
		emb.Relations = append(emb.Relations, r)
		e.Relations = append(e.Relations, r)
		if e.Kind == blueprint.KindEntityChild {
			e.Parent.Relations = append(e.Parent.Relations, r)
		}
	}
	for _, earg := range b.store.Embeddeds(arg.EmbeddedTarget) {
		nested, err := b.buildEmbedded(e, emb, earg, childPrefixes, path, forceNullable, visited)
		if err != nil {
			return nil, err
		}
		emb.Embeddeds = append(emb.Embeddeds, nested)
	}
	return emb, nil
}

// newRelation creates a relation from its record. The raw join declarations
// are captured here and consumed when the join side is materialized.
func (b *Builder) newRelation(e *Entity, arg blueprint.Relation, pathPrefix string) *Relation {
	field := arg.Property
	if pathPrefix != "" {
		field = pathPrefix + "." + arg.Property
	}
	r := &Relation{
		Entity:       e,
		Field:        field,
		Kind:         arg.Kind,
		Target:       arg.RelatedTarget,
		InverseField: arg.Inverse,
		Lazy:         arg.Lazy,
		Eager:        arg.Eager,
		Nullable:     arg.Nullable,
		hasNullable:  arg.HasNullable,
		OnDelete:     arg.OnDelete,
		OnUpdate:     arg.OnUpdate,
	}
	if jcs := b.store.JoinColumns(arg.Target, arg.Property); len(jcs) > 0 {
		r.hasJoinColumns = true
		r.joinColumnArgs = jcs
	}
	if jt, ok := b.store.JoinTable(arg.Target, arg.Property); ok {
		r.hasJoinTable = true
		r.joinTableArgs = jt
	}
	return r
}

// buildDiscriminator injects the virtual subtype column of a single table
// inheritance root. Children share it through the shared column list.
func (b *Builder) buildDiscriminator(e *Entity) {
	name := e.discriminatorName
	if e.HasColumnName(name) {
		// a user mapped property backs the discriminator.
		e.Discriminator, _ = e.ColumnByName(name)
		return
	}
	c := &Column{Entity: e, Name: name, Path: name, Virtual: true, Mode: blueprint.ModeVirtual}
	c.Information = dialect.Column{Table: e.Name, Name: name, Type: types.NewText(""), NullAble: false}
	e.Discriminator = c
	e.addColumn(c)
}

// buildTreeColumns injects the virtual bookkeeping columns of a tree entity.
// The materialized path starts empty and nullable, the nested set bounds
// start as the 1/2 root interval.
func (b *Builder) buildTreeColumns(e *Entity) {
	switch e.Tree {
	case blueprint.TreeMaterializedPath:
		name := b.naming.MaterializedPathName()
		if e.HasColumnName(name) {
			e.MaterializedPathColumn, _ = e.ColumnByName(name)
			return
		}
		c := &Column{Entity: e, Name: name, Path: name, Virtual: true, Mode: blueprint.ModeVirtual}
		c.Information = dialect.Column{
			Table:        e.Name,
			Name:         name,
			Type:         types.NewText(""),
			NullAble:     true,
			DefaultValue: dialect.NewNullString("", true),
		}
		e.MaterializedPathColumn = c
		e.addColumn(c)
	case blueprint.TreeNestedSet:
		left, right := b.naming.NestedSetNames()
		e.NestedSetLeftColumn = b.nestedSetColumn(e, left, "1")
		e.NestedSetRightColumn = b.nestedSetColumn(e, right, "2")
	}
}

func (b *Builder) nestedSetColumn(e *Entity, name string, defaultValue string) *Column {
	if e.HasColumnName(name) {
		c, _ := e.ColumnByName(name)
		return c
	}
	c := &Column{Entity: e, Name: name, Path: name, Virtual: true, Mode: blueprint.ModeVirtual}
	c.Information = dialect.Column{
		Table:        e.Name,
		Name:         name,
		Type:         types.NewInt(""),
		NullAble:     false,
		DefaultValue: dialect.NewNullString(defaultValue, true),
	}
	e.addColumn(c)
	return c
}

// computeDerived fills the derived column sets once all own members exist.
// Every non view entity must end up with a primary key or an object id.
func (b *Builder) computeDerived(e *Entity) error {
	e.PrimaryColumns = nil
	for _, c := range e.Columns {
		if c.Path != "" {
			e.properties[c.Path] = c
		}
		if c.Information.PrimaryKey {
			e.PrimaryColumns = append(e.PrimaryColumns, c)
		}
		switch c.Mode {
		case blueprint.ModeObjectID:
			e.ObjectIDColumn = c
		case blueprint.ModeVersion:
			e.VersionColumn = c
		case blueprint.ModeCreateDate:
			e.CreateDateColumn = c
		case blueprint.ModeUpdateDate:
			e.UpdateDateColumn = c
		case blueprint.ModeDeleteDate:
			e.DeleteDateColumn = c
		case blueprint.ModeTreeLevel:
			e.TreeLevelColumn = c
		}
	}
	if e.Kind == blueprint.KindEntityChild {
		e.Discriminator = e.Parent.Discriminator
	}
	if e.Kind != blueprint.KindView && len(e.PrimaryColumns) == 0 && e.ObjectIDColumn == nil {
		return fmt.Errorf(ErrPrimaryKey, e.Target)
	}
	return nil
}

// resolveRelations links every relation to its related entity, wires the
// inverse sides and settles the ownership. Views only read, their relation
// records stay unresolved placeholders and are skipped.
func (b *Builder) resolveRelations(set *Set) error {
	for _, e := range set.entities {
		if e.Kind == blueprint.KindView {
			continue
		}
		for _, r := range e.Relations {
			if r.Entity != e || r.Related != nil {
				continue
			}
			related := set.lookup(r.Target)
			if related == nil {
				return fmt.Errorf(ErrRelationTarget, r.Target, e.fqdn(r.Field))
			}
			r.Related = related
		}
	}
	for _, e := range set.entities {
		for _, r := range e.Relations {
			if r.Entity != e || r.Related == nil || r.InverseField == "" || r.Inverse != nil {
				continue
			}
			inverse, err := r.Related.Relation(r.InverseField)
			if err != nil {
				return fmt.Errorf(ErrInverseSide, r.InverseField, r.Related.Target, e.fqdn(r.Field))
			}
			r.Inverse = inverse
			inverse.Inverse = r
		}
	}
	for _, e := range set.entities {
		for _, r := range e.Relations {
			if r.Entity != e || r.Related == nil {
				continue
			}
			if err := checkOwnership(r); err != nil {
				return err
			}
			switch r.Kind {
			case blueprint.ManyToOne:
				r.Owner = true
			case blueprint.OneToMany:
				r.Owner = false
			case blueprint.OneToOne:
				r.Owner = r.hasJoinColumns || r.Inverse == nil
			case blueprint.ManyToMany:
				r.Owner = r.hasJoinTable || r.Inverse == nil
			}
		}
	}
	return nil
}

// materializeJoins derives the physical join side of every owning relation:
// foreign key columns for to-one relations, junction entities for many to
// many relations.
func (b *Builder) materializeJoins(set *Set) error {
	entities := append([]*Entity{}, set.entities...)
	for _, e := range entities {
		if e.Kind == blueprint.KindView {
			continue
		}
		for _, r := range e.Relations {
			if r.Entity != e || !r.Owner || r.Related == nil {
				continue
			}
			switch r.Kind {
			case blueprint.OneToOne, blueprint.ManyToOne:
				if err := b.buildJoinColumns(r); err != nil {
					return err
				}
			case blueprint.ManyToMany:
				if err := b.buildJunction(set, r); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// buildJoinColumns derives the foreign key columns of an owning to-one
// relation, one per referenced primary key column. An explicit join column
// record overrides the derived name and reference, a user mapped property
// with the identical column name is reused instead of duplicated. Without an
// explicit declaration the columns are nullable - an optional association is
// the common case.
func (b *Builder) buildJoinColumns(r *Relation) error {
	if len(r.JoinColumns) > 0 {
		return nil
	}
	related := r.Related.Physical()
	pks, err := related.PrimaryKeys()
	if err != nil {
		return err
	}

	nullable := true
	if r.hasNullable {
		nullable = r.Nullable
	}

	count := len(pks)
	if len(r.joinColumnArgs) > 0 {
		count = len(r.joinColumnArgs)
	}

	var joinCols, refCols []*Column
	for i := 0; i < count; i++ {
		var arg blueprint.JoinColumn
		if i < len(r.joinColumnArgs) {
			arg = r.joinColumnArgs[i]
		}
		ref := pks[0]
		if i < len(pks) {
			ref = pks[i]
		}
		if arg.ReferencedColumn != "" {
			if ref, err = related.Column(arg.ReferencedColumn); err != nil {
				return err
			}
		}
		name := arg.Name
		if name == "" {
			name = b.naming.RelationColumnName(r.Field, ref.Information.Name)
		}

		c, err := r.Entity.ColumnByName(name)
		if err != nil {
			c = &Column{Entity: r.Entity, Name: name, Mode: blueprint.ModeRegular}
			c.Information = dialect.Column{
				Table:     r.Entity.Physical().Name,
				Name:      name,
				Type:      ref.Information.Type,
				Length:    ref.Information.Length,
				Precision: ref.Information.Precision,
				Scale:     ref.Information.Scale,
				NullAble:  nullable,
			}
			r.Entity.addColumn(c)
		}
		joinCols = append(joinCols, c)
		refCols = append(refCols, ref)
	}
	r.JoinColumns = joinCols
	r.ReferencedColumns = refCols

	phys := r.Entity.Physical()
	phys.ForeignKeys = append(phys.ForeignKeys, &ForeignKey{
		Entity:            phys,
		Columns:           joinCols,
		Referenced:        related,
		ReferencedColumns: refCols,
		OnDelete:          r.OnDelete,
		OnUpdate:          r.OnUpdate,
	})

	caps := b.dialect.Capabilities()
	names := columnNames(joinCols)
	if r.IsOneToOne() {
		if caps.UniqueAsIndex {
			phys.Indexes = append(phys.Indexes, &Index{Entity: phys, Fields: names, Columns: joinCols, Unique: true, Synthetic: true})
		} else {
			phys.Uniques = append(phys.Uniques, &Unique{Entity: phys, Fields: names, Columns: joinCols, Synthetic: true})
		}
	} else if caps.IndexForeignKeys {
		phys.Indexes = append(phys.Indexes, &Index{Entity: phys, Fields: names, Columns: joinCols, Synthetic: true})
	}
	return nil
}

// expandClosures synthesizes the closure table of every closure tree entity.
func (b *Builder) expandClosures(set *Set) error {
	entities := append([]*Entity{}, set.entities...)
	for _, e := range entities {
		if e.Tree != blueprint.TreeClosureTable || e.Kind == blueprint.KindEntityChild {
			continue
		}
		if err := b.buildClosure(set, e); err != nil {
			return err
		}
	}
	return nil
}

// indexDiscriminators adds a supporting index on the discriminator column of
// every single table root - subtype filtered queries always touch it. A user
// index covering exactly that column suppresses the synthetic one.
func (b *Builder) indexDiscriminators(set *Set) {
	for _, e := range set.entities {
		if e.Kind == blueprint.KindEntityChild || e.Inheritance != blueprint.InheritanceSingleTable || e.Discriminator == nil {
			continue
		}
		name := e.Discriminator.Information.Name
		covered := false
		for _, idx := range e.Indexes {
			if slicer.StringsEqual(idx.Fields, []string{name}) {
				covered = true
				break
			}
		}
		if !covered {
			e.Indexes = append(e.Indexes, &Index{Entity: e, Fields: []string{name}, Columns: []*Column{e.Discriminator}, Synthetic: true})
		}
	}
}

// materializeForeignKeys resolves the explicit foreign key records which are
// not derived of a relation.
func (b *Builder) materializeForeignKeys(set *Set) error {
	for _, e := range set.entities {
		for _, arg := range e.fkArgs {
			referenced := set.lookup(arg.RefTarget)
			if referenced == nil {
				return fmt.Errorf(ErrForeignKeyTarget, e.Target, arg.RefTarget)
			}
			referenced = referenced.Physical()

			var refCols []*Column
			if len(arg.RefColumns) == 0 {
				var err error
				if refCols, err = referenced.PrimaryKeys(); err != nil {
					return err
				}
			} else {
				for _, name := range arg.RefColumns {
					c, err := referenced.Column(name)
					if err != nil {
						return fmt.Errorf(ErrConstraintColumn, "foreign key", name, referenced.Target)
					}
					refCols = append(refCols, c)
				}
			}
			var cols []*Column
			for _, name := range arg.Columns {
				c, err := e.Column(name)
				if err != nil {
					return fmt.Errorf(ErrConstraintColumn, "foreign key", name, e.Target)
				}
				cols = append(cols, c)
			}

			phys := e.Physical()
			phys.ForeignKeys = append(phys.ForeignKeys, &ForeignKey{
				Entity:            phys,
				Name:              arg.Name,
				Columns:           cols,
				Referenced:        referenced,
				ReferencedColumns: refCols,
				OnDelete:          arg.OnDelete,
				OnUpdate:          arg.OnUpdate,
			})
		}
		e.fkArgs = nil
	}
	return nil
}

// finalize resolves the declared constraint fields to column instances,
// computes the deterministic constraint names, numbers the column positions
// and checks the physical column name uniqueness per table.
func (b *Builder) finalize(set *Set) error {
	for _, e := range set.entities {
		table := e.Physical().Name
		for _, idx := range e.Indexes {
			if len(idx.Columns) == 0 {
				for _, f := range idx.Fields {
					c, err := e.Column(f)
					if err != nil {
						return fmt.Errorf(ErrConstraintColumn, "index", f, e.Target)
					}
					idx.Columns = append(idx.Columns, c)
				}
			}
			if idx.Name == "" {
				idx.Name = b.naming.IndexName(table, columnNames(idx.Columns))
			}
		}
		for _, u := range e.Uniques {
			if len(u.Columns) == 0 {
				for _, f := range u.Fields {
					c, err := e.Column(f)
					if err != nil {
						return fmt.Errorf(ErrConstraintColumn, "unique", f, e.Target)
					}
					u.Columns = append(u.Columns, c)
				}
			}
			if u.Name == "" {
				u.Name = b.naming.UniqueName(table, columnNames(u.Columns))
			}
		}
		for _, c := range e.Checks {
			if c.Name == "" {
				c.Name = b.naming.CheckName(table, c.Expression)
			}
		}
		for _, x := range e.Exclusions {
			if x.Name == "" {
				x.Name = b.naming.ExclusionName(table, x.Expression)
			}
		}
		for _, fk := range e.ForeignKeys {
			if fk.Name == "" {
				fk.Name = b.naming.ForeignKeyName(table, columnNames(fk.Columns), fk.Referenced.Physical().Name, columnNames(fk.ReferencedColumns))
			}
		}
	}
	for _, e := range set.entities {
		if e.Kind == blueprint.KindEntityChild {
			continue
		}
		seen := map[string]bool{}
		for i, c := range e.Columns {
			if seen[c.Information.Name] {
				return fmt.Errorf(ErrDuplicateColumn, c.Information.Name, e.Name)
			}
			seen[c.Information.Name] = true
			if c.Information.Position == 0 {
				c.Information.Position = i + 1
			}
		}
	}
	return nil
}

// inherited reports whether the owner is on the entity's parent chain.
func inherited(e *Entity, owner *Entity) bool {
	for p := e.Parent; p != nil; p = p.Parent {
		if p == owner {
			return true
		}
	}
	return false
}

// bareTarget strips a package or namespace qualifier of a target identifier.
func bareTarget(target string) string {
	target = strings.TrimPrefix(target, "*")
	if i := strings.LastIndex(target, "."); i >= 0 {
		target = target[i+1:]
	}
	return target
}
