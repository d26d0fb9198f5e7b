package load

import (
	"encoding/xml"
	"io"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/syssam/modelcoder/model"
)

// Gaphor stores every element at the top level of the document. Features
// hold a value, a reference or a list of references:
//
//	<Property id="p1">
//	  <name><val>owner</val></name>
//	  <class_><ref refid="c1"/></class_>
//	  <appliedStereotype><reflist><ref refid="i1"/></reflist></appliedStereotype>
//	</Property>
type (
	gaphorDocument struct {
		XMLName  xml.Name
		Elements []gaphorElement `xml:",any"`
	}

	gaphorElement struct {
		XMLName  xml.Name
		ID       string          `xml:"id,attr"`
		Features []gaphorFeature `xml:",any"`
	}

	gaphorFeature struct {
		XMLName xml.Name
		Val     *string     `xml:"val"`
		Ref     *gaphorRef  `xml:"ref"`
		RefList []gaphorRef `xml:"reflist>ref"`
	}

	gaphorRef struct {
		RefID string `xml:"refid,attr"`
	}
)

// record is a decoded element with its features by name.
type record struct {
	kind     string
	id       string
	features map[string]gaphorFeature
}

func (r *record) val(name string) string {
	if f, ok := r.features[name]; ok && f.Val != nil {
		return strings.TrimSpace(*f.Val)
	}
	return ""
}

func (r *record) ref(name string) string {
	if f, ok := r.features[name]; ok && f.Ref != nil {
		return f.Ref.RefID
	}
	return ""
}

func (r *record) refs(name string) []string {
	f, ok := r.features[name]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(f.RefList)+1)
	if f.Ref != nil {
		ids = append(ids, f.Ref.RefID)
	}
	for _, ref := range f.RefList {
		ids = append(ids, ref.RefID)
	}
	return ids
}

func (r *record) flag(name string) bool {
	switch strings.ToLower(r.val(name)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// ReadGaphor reads a Gaphor XML model. Stereotypes are loaded as classes,
// stereotype applications as annotations of the extended elements, and the
// opposite of an association end is the other end of its association.
func ReadGaphor(r io.Reader) (*model.Model, error) {
	var doc gaphorDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode gaphor model")
	}
	if doc.XMLName.Local != "gaphor" {
		return nil, errors.Newf("unexpected root element <%s>, want <gaphor>", doc.XMLName.Local)
	}
	g := &gaphorLoader{
		m:        model.New(),
		records:  make(map[string]*record, len(doc.Elements)),
		packages: make(map[string]*model.Package),
		classes:  make(map[string]*model.Class),
		props:    make(map[string]*model.Property),
		annots:   make(map[string]*model.Annotation),
	}
	for _, e := range doc.Elements {
		if e.ID == "" {
			continue
		}
		if _, dup := g.records[e.ID]; dup {
			return nil, errors.Newf("duplicate element id %q", e.ID)
		}
		rec := &record{kind: e.XMLName.Local, id: e.ID, features: make(map[string]gaphorFeature, len(e.Features))}
		for _, f := range e.Features {
			rec.features[f.XMLName.Local] = f
		}
		g.records[rec.id] = rec
		g.order = append(g.order, rec)
	}
	if err := g.load(); err != nil {
		return nil, err
	}
	return g.m, nil
}

type gaphorLoader struct {
	m        *model.Model
	order    []*record
	records  map[string]*record
	packages map[string]*model.Package
	classes  map[string]*model.Class
	props    map[string]*model.Property
	annots   map[string]*model.Annotation
}

func (g *gaphorLoader) load() error {
	// Elements first, in document order per kind.
	for _, rec := range g.order {
		switch rec.kind {
		case "Package", "Profile":
			p, err := g.m.NewPackage(rec.id, rec.val("name"))
			if err != nil {
				return err
			}
			p.Profile = rec.kind == "Profile"
			g.packages[rec.id] = p
		}
	}
	for _, rec := range g.order {
		switch rec.kind {
		case "Class", "Stereotype":
			c, err := g.m.NewClass(rec.id, rec.val("name"))
			if err != nil {
				return err
			}
			g.classes[rec.id] = c
		}
	}
	for _, rec := range g.order {
		if rec.kind != "Property" {
			continue
		}
		if err := g.property(rec); err != nil {
			return err
		}
	}
	for _, rec := range g.order {
		if rec.kind != "InstanceSpecification" {
			continue
		}
		if err := g.instance(rec); err != nil {
			return err
		}
	}

	// Then the structure between them.
	g.nest()
	g.owners()
	if err := g.operations(); err != nil {
		return err
	}
	if err := g.generalizations(); err != nil {
		return err
	}
	g.associations()
	g.applications()
	return nil
}

func (g *gaphorLoader) property(rec *record) error {
	p, err := g.m.NewProperty(rec.id, rec.val("name"))
	if err != nil {
		return err
	}
	if t := rec.ref("type"); t != "" {
		if c, ok := g.classes[t]; ok {
			p.Type = model.ClassType(c)
		}
	}
	if p.Type.IsZero() {
		p.Type = model.Placeholder(rec.val("typeValue"))
	}
	p.Lower = rec.val("lowerValue")
	p.Upper = rec.val("upperValue")
	p.Derived = rec.flag("isDerived")
	p.Association = rec.ref("association") != ""
	p.Default = rec.val("defaultValue")
	agg, err := model.ParseAggregation(rec.val("aggregation"))
	if err != nil {
		return errors.Wrapf(err, "property %s", rec.id)
	}
	p.Aggregation = agg
	g.props[rec.id] = p
	return nil
}

// instance turns a stereotype application into an annotation. The slots
// are keyed by the name of their defining feature.
func (g *gaphorLoader) instance(rec *record) error {
	var stereotype string
	for _, id := range rec.refs("classifier") {
		if c, ok := g.classes[id]; ok {
			stereotype = c.Name
			break
		}
	}
	a, err := g.m.NewAnnotation(rec.id, stereotype)
	if err != nil {
		return err
	}
	slots := rec.refs("slot")
	for _, other := range g.order {
		if other.kind == "Slot" && other.ref("owningInstance") == rec.id && !slices.Contains(slots, other.id) {
			slots = append(slots, other.id)
		}
	}
	for _, id := range slots {
		s, ok := g.records[id]
		if !ok {
			continue
		}
		feature := ""
		if def, ok := g.records[s.ref("definingFeature")]; ok {
			feature = def.val("name")
		}
		if feature == "" {
			continue
		}
		a.SetSlot(feature, s.val("value"))
	}
	g.annots[rec.id] = a
	return nil
}

// nest places classes and packages in their packages.
func (g *gaphorLoader) nest() {
	placedPkg := make(map[string]bool)
	placedCls := make(map[string]bool)
	for _, rec := range g.order {
		p, ok := g.packages[rec.id]
		if !ok {
			continue
		}
		for _, id := range rec.refs("nestedPackage") {
			if n, ok := g.packages[id]; ok && !placedPkg[id] && n != p {
				p.AddPackage(n)
				placedPkg[id] = true
			}
		}
		for _, id := range rec.refs("ownedType") {
			if c, ok := g.classes[id]; ok && !placedCls[id] {
				p.AddClass(c)
				placedCls[id] = true
			}
		}
	}
	for _, rec := range g.order {
		if n, ok := g.packages[rec.id]; ok && !placedPkg[rec.id] {
			if p, ok := g.packages[rec.ref("nestingPackage")]; ok && p != n {
				p.AddPackage(n)
				placedPkg[rec.id] = true
			}
		}
		if c, ok := g.classes[rec.id]; ok && !placedCls[rec.id] {
			if p, ok := g.packages[rec.ref("package")]; ok {
				p.AddClass(c)
				placedCls[rec.id] = true
			}
		}
	}
}

// owners attaches properties to their classes, in the order the class
// lists them. Properties owned by an association stay unattached.
func (g *gaphorLoader) owners() {
	placed := make(map[string]bool)
	for _, rec := range g.order {
		c, ok := g.classes[rec.id]
		if !ok {
			continue
		}
		for _, id := range rec.refs("ownedAttribute") {
			if p, ok := g.props[id]; ok && !placed[id] {
				c.AddAttribute(p)
				placed[id] = true
			}
		}
	}
	for _, rec := range g.order {
		p, ok := g.props[rec.id]
		if !ok || placed[rec.id] {
			continue
		}
		if c, ok := g.classes[rec.ref("class_")]; ok {
			c.AddAttribute(p)
			placed[rec.id] = true
		}
	}
}

func (g *gaphorLoader) operations() error {
	placed := make(map[string]bool)
	add := func(c *model.Class, rec *record) error {
		if placed[rec.id] {
			return nil
		}
		o, err := g.m.NewOperation(rec.id, rec.val("name"))
		if err != nil {
			return err
		}
		c.AddOperation(o)
		placed[rec.id] = true
		return nil
	}
	for _, rec := range g.order {
		c, ok := g.classes[rec.id]
		if !ok {
			continue
		}
		for _, id := range rec.refs("ownedOperation") {
			if op, ok := g.records[id]; ok && op.kind == "Operation" {
				if err := add(c, op); err != nil {
					return err
				}
			}
		}
	}
	for _, rec := range g.order {
		if rec.kind != "Operation" {
			continue
		}
		if c, ok := g.classes[rec.ref("class_")]; ok {
			if err := add(c, rec); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *gaphorLoader) generalizations() error {
	for _, rec := range g.order {
		if rec.kind != "Generalization" {
			continue
		}
		specific, ok := g.classes[rec.ref("specific")]
		if !ok {
			continue
		}
		general, ok := g.classes[rec.ref("general")]
		if !ok {
			return errors.Newf("generalization %s of %s: unknown general class %q", rec.id, specific.Name, rec.ref("general"))
		}
		if _, err := g.m.NewGeneralization(rec.id, specific, general); err != nil {
			return err
		}
	}
	return nil
}

// associations links the two member ends of every association.
func (g *gaphorLoader) associations() {
	for _, rec := range g.order {
		if rec.kind != "Association" {
			continue
		}
		var ends []*model.Property
		for _, id := range rec.refs("memberEnd") {
			if p, ok := g.props[id]; ok {
				ends = append(ends, p)
			}
		}
		if len(ends) != 2 {
			continue
		}
		ends[0].Opposite, ends[1].Opposite = ends[1], ends[0]
		ends[0].Association, ends[1].Association = true, true
	}
}

// applications attaches annotations to the elements they extend.
func (g *gaphorLoader) applications() {
	attached := make(map[*model.Annotation]map[string]bool)
	attach := func(a *model.Annotation, target string) {
		if attached[a] == nil {
			attached[a] = make(map[string]bool)
		}
		if attached[a][target] {
			return
		}
		attached[a][target] = true
		if c, ok := g.classes[target]; ok {
			c.Annotations = append(c.Annotations, a)
		} else if p, ok := g.props[target]; ok {
			p.Annotations = append(p.Annotations, a)
		}
	}
	for _, rec := range g.order {
		for _, id := range rec.refs("appliedStereotype") {
			if a, ok := g.annots[id]; ok {
				attach(a, rec.id)
			}
		}
	}
	for _, rec := range g.order {
		if a, ok := g.annots[rec.id]; ok {
			for _, target := range rec.refs("extended") {
				attach(a, target)
			}
		}
	}
}
