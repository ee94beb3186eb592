package imo

// ContentObj is a node that can carry attachments: auxiliary objects that
// are rendered with it but are not part of the primary tree shape.
type ContentObj interface {
	Obj
	AddAttachment(a AuxObj)
	Attachments() *Attachments
	Attachment(i int) AuxObj
	NumAttachments() int
	HasAttachments() bool
	RemoveAttachment(a AuxObj)
	FindAttachment(k Kind) AuxObj
	UserLocation() (x, y Tenths)
	SetUserLocation(x, y Tenths)
	IsVisible() bool
	SetVisible(visible bool)
	content() *contentBase
}

// Tenths is the notation space unit (a tenth of the staff line spacing).
type Tenths float64

// LUnits is the logical layout unit (hundredths of a millimetre).
type LUnits float64

type contentBase struct {
	node
	userX, userY Tenths
	visible      bool
}

func (c *contentBase) initContent(self Obj, k Kind) {
	c.init(self, k)
	c.visible = true
}

func (c *contentBase) content() *contentBase { return c }

// UserLocation returns the user supplied displacement.
func (c *contentBase) UserLocation() (x, y Tenths) { return c.userX, c.userY }

// SetUserLocation sets the user supplied displacement.
func (c *contentBase) SetUserLocation(x, y Tenths) { c.userX, c.userY = x, y }

// IsVisible reports the visibility flag.
func (c *contentBase) IsVisible() bool { return c.visible }

// SetVisible sets the visibility flag.
func (c *contentBase) SetVisible(visible bool) { c.visible = visible }

// Attachments returns the attachments collection, or nil when nothing has
// ever been attached.
func (c *contentBase) Attachments() *Attachments {
	if a, ok := c.ChildOfType(KindAttachments).(*Attachments); ok {
		return a
	}
	return nil
}

// AddAttachment inserts a in the attachments collection, creating the
// collection on first use.
func (c *contentBase) AddAttachment(a AuxObj) {
	col := c.Attachments()
	if col == nil {
		col = NewAttachments()
		c.AppendChild(col)
	}
	col.Add(a)
}

// Attachment returns the i-th attachment or nil.
func (c *contentBase) Attachment(i int) AuxObj {
	col := c.Attachments()
	if col == nil {
		return nil
	}
	return col.Item(i)
}

// NumAttachments returns the number of attached items.
func (c *contentBase) NumAttachments() int {
	if col := c.Attachments(); col != nil {
		return col.NumItems()
	}
	return 0
}

// HasAttachments reports whether at least one item is attached.
func (c *contentBase) HasAttachments() bool {
	return c.NumAttachments() > 0
}

// FindAttachment returns the first attached item of kind k, or nil.
func (c *contentBase) FindAttachment(k Kind) AuxObj {
	col := c.Attachments()
	if col == nil {
		return nil
	}
	return col.FindItemOfType(k)
}

// RemoveAttachment detaches a and releases it. A relation detached from a
// staff object goes through the relation protocol so that the remaining
// participants stay consistent; any other item is deleted.
func (c *contentBase) RemoveAttachment(a AuxObj) {
	col := c.Attachments()
	if col == nil || a == nil {
		return
	}
	if r, ok := a.(RelObj); ok {
		if so, ok := c.self.(StaffObj); ok && r.isParticipant(so) {
			so.RemoveFromRelation(r)
			return
		}
		col.Remove(a)
		if r.NumObjects() == 0 && !r.IsDeleted() {
			Delete(r)
		}
		return
	}
	if !col.contains(a) {
		return
	}
	col.Remove(a)
	Delete(a)
}

// scoreObjBase adds color to content nodes that live inside a score.
type scoreObjBase struct {
	contentBase
	color Color
}

func (s *scoreObjBase) initScoreObj(self Obj, k Kind) {
	s.initContent(self, k)
	s.color = Black
}

// Color returns the node color.
func (s *scoreObjBase) Color() Color { return s.color }

// SetColor sets the node color.
func (s *scoreObjBase) SetColor(c Color) { s.color = c }

// AuxObj is an auxiliary object attached to a content node.
type AuxObj interface {
	ContentObj
	Color() Color
	SetColor(c Color)
	aux() *auxBase
}

type auxBase struct {
	scoreObjBase
}

func (a *auxBase) aux() *auxBase { return a }

// simpleBase is embedded by plain data holders.
type simpleBase struct {
	node
}

// collection groups children of one role (options, instruments...).
type collection struct {
	node
}
