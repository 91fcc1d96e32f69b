package nav

import (
	"fmt"

	"github.com/sgaunet/s3tui/pkg/cache"
	"github.com/sgaunet/s3tui/pkg/dto"
	"github.com/sgaunet/s3tui/pkg/preview"
)

// Machine is the navigation state machine. It is not safe for concurrent
// use: every method is called from the UI loop.
type Machine struct {
	cache     *cache.ListingCache
	delimiter string
	frames    []*Frame
	overlays  []*Overlay
	banner    *Banner
	token     uint64
	// pending is the listing request whose success pushes or refreshes a frame.
	pending *Request
}

// NewMachine creates a machine whose root frame is an empty bucket list.
// Start returns the request loading it.
func NewMachine(c *cache.ListingCache, delimiter string) *Machine {
	if delimiter == "" {
		delimiter = dto.Delimiter
	}
	m := &Machine{cache: c, delimiter: delimiter}
	root := &Frame{View: &BucketListView{}, Selected: -1}
	m.frames = []*Frame{root}
	return m
}

func (m *Machine) nextToken() uint64 {
	m.token++
	return m.token
}

// Start returns the request loading the bucket list.
func (m *Machine) Start() Request {
	return m.loadBuckets()
}

func (m *Machine) loadBuckets() Request {
	v := m.frames[0].View.(*BucketListView)
	v.Loading = true
	v.token = m.nextToken()
	return Request{Kind: LoadBuckets, Token: v.token}
}

// Current returns the frame on top of the stack.
func (m *Machine) Current() *Frame {
	return m.frames[len(m.frames)-1]
}

// Frames returns the stack, root first.
func (m *Machine) Frames() []*Frame {
	return m.frames
}

// Depth returns the number of frames above the root.
func (m *Machine) Depth() int {
	return len(m.frames) - 1
}

// Delimiter returns the delimiter used for listings.
func (m *Machine) Delimiter() string {
	return m.delimiter
}

// Breadcrumb returns the location of the current frame.
func (m *Machine) Breadcrumb() string {
	f := m.Current()
	key := ""
	switch v := f.View.(type) {
	case *ObjectDetailView:
		key = v.Entry.Key
	case *ObjectVersionsView:
		key = v.Key
	case *ObjectPreviewView:
		key = v.Key
	}
	return dto.Breadcrumb(f.Bucket, f.Prefix, key)
}

// Loading reports whether a listing is being fetched to open or refresh a frame.
func (m *Machine) Loading() bool {
	return m.pending != nil
}

// push puts f on top of the stack. A listing still pending for the frame
// below is dropped.
func (m *Machine) push(f *Frame) {
	m.pending = nil
	f.arrange()
	m.frames = append(m.frames, f)
}

// Open opens the selection of the current frame: a bucket or a prefix opens
// its listing, an object opens its detail, a version opens its preview.
func (m *Machine) Open() Request {
	f := m.Current()
	switch f.View.(type) {
	case *BucketListView:
		b, ok := f.SelectedBucket()
		if !ok {
			return Request{}
		}
		return m.openListing(b.Name, "")
	case *ObjectListView:
		e, ok := f.SelectedEntry()
		if !ok {
			return Request{}
		}
		if e.IsPrefix {
			return m.openListing(f.Bucket, e.Key)
		}
		return m.openDetail(f, e)
	case *ObjectDetailView, *ObjectVersionsView:
		return m.OpenPreview()
	default:
		return Request{}
	}
}

// OpenLocation opens the listing of prefix in bucket directly, as if the
// bucket had been opened from the bucket list.
func (m *Machine) OpenLocation(bucket, prefix string) Request {
	return m.openListing(bucket, prefix)
}

func (m *Machine) openListing(bucket, prefix string) Request {
	m.pending = nil
	if l, ok := m.cache.Get(bucket, prefix); ok {
		m.push(&Frame{Bucket: bucket, Prefix: prefix, View: &ObjectListView{Listing: l}})
		return Request{}
	}
	req := Request{Kind: LoadListing, Token: m.nextToken(), Bucket: bucket, Prefix: prefix}
	m.pending = &req
	return req
}

func (m *Machine) openDetail(f *Frame, e dto.ObjectEntry) Request {
	v := &ObjectDetailView{Entry: e, Loading: true, token: m.nextToken()}
	m.push(&Frame{Bucket: f.Bucket, Prefix: f.Prefix, View: v})
	return Request{Kind: LoadDetail, Token: v.token, Bucket: f.Bucket, Key: e.Key}
}

// OpenVersions opens the version list of the object of the current detail frame.
func (m *Machine) OpenVersions() Request {
	f := m.Current()
	d, ok := f.View.(*ObjectDetailView)
	if !ok {
		return Request{}
	}
	v := &ObjectVersionsView{Key: d.Entry.Key, Loading: true, token: m.nextToken()}
	m.push(&Frame{Bucket: f.Bucket, Prefix: f.Prefix, View: v})
	return Request{Kind: LoadVersions, Token: v.token, Bucket: f.Bucket, Key: d.Entry.Key}
}

// OpenPreview opens the preview of the selected object: the latest version
// from a list or a detail frame, the selected version from a versions frame.
func (m *Machine) OpenPreview() Request {
	f := m.Current()
	var key, version string
	var size int64
	switch v := f.View.(type) {
	case *ObjectListView:
		e, ok := f.SelectedEntry()
		if !ok || e.IsPrefix {
			return Request{}
		}
		key, size = e.Key, e.Size
	case *ObjectDetailView:
		key, size = v.Entry.Key, v.Entry.Size
		if v.Detail != nil {
			size = v.Detail.Size
		}
	case *ObjectVersionsView:
		ver, ok := f.SelectedVersion()
		if !ok {
			return Request{}
		}
		if ver.IsDeleteMarker {
			m.Notify(Warn, "a delete marker has no content")
			return Request{}
		}
		key, version, size = v.Key, ver.VersionID, ver.Size
	default:
		return Request{}
	}

	p := &ObjectPreviewView{Key: key, Version: version, Size: size, Loading: true, token: m.nextToken()}
	m.push(&Frame{Bucket: f.Bucket, Prefix: f.Prefix, View: p})
	return Request{Kind: LoadPreview, Token: p.token, Bucket: f.Bucket, Key: key, Version: version, Size: size}
}

// Redecode re-decodes the current preview with encoding.
func (m *Machine) Redecode(encoding string) Request {
	f := m.Current()
	p, ok := f.View.(*ObjectPreviewView)
	if !ok || p.Loading || p.Data == nil {
		return Request{}
	}
	switch p.Content.(type) {
	case preview.Text, preview.Failed:
	default:
		return Request{}
	}
	p.token = m.nextToken()
	return Request{
		Kind:     RedecodePreview,
		Token:    p.token,
		Bucket:   f.Bucket,
		Key:      p.Key,
		Version:  p.Version,
		Encoding: encoding,
		Data:     p.Data,
	}
}

// Back pops the current frame. It is a no-op at the root.
func (m *Machine) Back() bool {
	m.pending = nil
	if len(m.frames) == 1 {
		return false
	}
	m.frames = m.frames[:len(m.frames)-1]
	return true
}

// BackToRoot pops every frame but the root.
func (m *Machine) BackToRoot() {
	m.pending = nil
	m.frames = m.frames[:1]
}

// Refresh fetches again the data of the current frame, bypassing the cache.
func (m *Machine) Refresh() Request {
	f := m.Current()
	switch v := f.View.(type) {
	case *BucketListView:
		return m.loadBuckets()
	case *ObjectListView:
		req := Request{Kind: LoadListing, Token: m.nextToken(), Bucket: f.Bucket, Prefix: f.Prefix, Refresh: true}
		m.pending = &req
		return req
	case *ObjectDetailView:
		v.Loading, v.Err, v.token = true, nil, m.nextToken()
		return Request{Kind: LoadDetail, Token: v.token, Bucket: f.Bucket, Key: v.Entry.Key}
	case *ObjectVersionsView:
		v.Loading, v.Err, v.token = true, nil, m.nextToken()
		return Request{Kind: LoadVersions, Token: v.token, Bucket: f.Bucket, Key: v.Key}
	case *ObjectPreviewView:
		v.Loading, v.token = true, m.nextToken()
		return Request{Kind: LoadPreview, Token: v.token, Bucket: f.Bucket, Key: v.Key, Version: v.Version, Size: v.Size}
	default:
		return Request{}
	}
}

// CompleteBuckets hands back the result of a LoadBuckets request.
func (m *Machine) CompleteBuckets(token uint64, buckets []dto.BucketEntry, err error) {
	root := m.frames[0]
	v := root.View.(*BucketListView)
	if v.token != token {
		return
	}
	v.Loading = false
	if err != nil {
		v.Err = err
		m.Notify(Error, fmt.Sprintf("failed to list buckets: %v", err))
		return
	}
	v.Err = nil
	v.Buckets = buckets
	root.arrange()
}

// CompleteListing hands back the result of a LoadListing request. On success
// the listing is cached and the frame pushed (or refreshed); on failure the
// current frame stays and an error banner is set.
func (m *Machine) CompleteListing(res ListingResult) {
	if m.pending == nil || m.pending.Token != res.Token {
		return
	}
	req := *m.pending
	m.pending = nil

	if res.Err != nil {
		m.Notify(Error, fmt.Sprintf("failed to list %s: %v", dto.Breadcrumb(req.Bucket, req.Prefix, ""), res.Err))
		return
	}

	listing := m.cache.Put(req.Bucket, req.Prefix, res.Entries)
	if !req.Refresh {
		m.push(&Frame{Bucket: req.Bucket, Prefix: req.Prefix, View: &ObjectListView{Listing: listing}})
		return
	}
	for _, f := range m.frames {
		if v, ok := f.View.(*ObjectListView); ok && f.Bucket == req.Bucket && f.Prefix == req.Prefix {
			v.Listing = listing
			f.arrange()
		}
	}
}

// CompleteDetail hands back the result of a LoadDetail request.
func (m *Machine) CompleteDetail(token uint64, detail dto.ObjectDetail, err error) {
	for _, f := range m.frames {
		v, ok := f.View.(*ObjectDetailView)
		if !ok || v.token != token {
			continue
		}
		v.Loading = false
		if err != nil {
			v.Err = err
			return
		}
		v.Err = nil
		v.Detail = &detail
		return
	}
}

// CompleteVersions hands back the result of a LoadVersions request.
func (m *Machine) CompleteVersions(token uint64, versions []dto.VersionEntry, err error) {
	for _, f := range m.frames {
		v, ok := f.View.(*ObjectVersionsView)
		if !ok || v.token != token {
			continue
		}
		v.Loading = false
		if err != nil {
			v.Err = err
			return
		}
		v.Err = nil
		v.Versions = versions
		f.arrange()
		return
	}
}

// CompletePreview hands back the result of a LoadPreview or RedecodePreview
// request.
func (m *Machine) CompletePreview(res PreviewResult) {
	for _, f := range m.frames {
		v, ok := f.View.(*ObjectPreviewView)
		if !ok || v.token != res.Token {
			continue
		}
		v.Loading = false
		switch {
		case res.Err != nil:
			v.Content = preview.Failed{Err: res.Err}
		default:
			v.Content = res.Content
		}
		if res.Data != nil {
			v.Data = res.Data
		}
		return
	}
}

// ApplyFilter filters the rows of the current frame.
func (m *Machine) ApplyFilter(text string) {
	f := m.Current()
	f.Filter = text
	f.arrange()
}

// ApplySort sorts the rows of the current frame.
func (m *Machine) ApplySort(key SortKey) {
	f := m.Current()
	f.Sort = key
	f.arrange()
}

// Move moves the selection by delta rows, staying in range.
func (m *Machine) Move(delta int) {
	m.Current().move(delta)
}

// GoTop selects the first row.
func (m *Machine) GoTop() {
	f := m.Current()
	if f.Len() > 0 {
		f.Selected = 0
	}
}

// GoBottom selects the last row.
func (m *Machine) GoBottom() {
	f := m.Current()
	if f.Len() > 0 {
		f.Selected = f.Len() - 1
	}
}

// Selection describes what a download or a console action applies to.
type Selection struct {
	Bucket   string
	Prefix   string
	Key      string
	Version  string
	Size     int64
	IsPrefix bool
}

// Selection returns the object, version or prefix selected in the current
// frame. A bucket is selected as its root prefix. Delete markers are not
// selectable.
func (m *Machine) Selection() (Selection, bool) {
	f := m.Current()
	s := Selection{Bucket: f.Bucket, Prefix: f.Prefix}
	switch v := f.View.(type) {
	case *BucketListView:
		b, ok := f.SelectedBucket()
		if !ok {
			return s, false
		}
		s.Bucket, s.IsPrefix = b.Name, true
	case *ObjectListView:
		e, ok := f.SelectedEntry()
		if !ok {
			return s, false
		}
		s.Key, s.Size, s.IsPrefix = e.Key, e.Size, e.IsPrefix
	case *ObjectDetailView:
		s.Key, s.Size = v.Entry.Key, v.Entry.Size
	case *ObjectVersionsView:
		ver, ok := f.SelectedVersion()
		if !ok || ver.IsDeleteMarker {
			return s, false
		}
		s.Key, s.Version, s.Size = v.Key, ver.VersionID, ver.Size
	case *ObjectPreviewView:
		s.Key, s.Version, s.Size = v.Key, v.Version, v.Size
	default:
		return s, false
	}
	return s, true
}

// PushOverlay opens an overlay above the current frame.
func (m *Machine) PushOverlay(o Overlay) *Overlay {
	m.overlays = append(m.overlays, &o)
	return &o
}

// PopOverlay closes the top overlay.
func (m *Machine) PopOverlay() (Overlay, bool) {
	if len(m.overlays) == 0 {
		return Overlay{}, false
	}
	o := m.overlays[len(m.overlays)-1]
	m.overlays = m.overlays[:len(m.overlays)-1]
	return *o, true
}

// Overlay returns the top overlay.
func (m *Machine) Overlay() (*Overlay, bool) {
	if len(m.overlays) == 0 {
		return nil, false
	}
	return m.overlays[len(m.overlays)-1], true
}

// OpenFilter opens the filter input of the current list frame.
func (m *Machine) OpenFilter() bool {
	f := m.Current()
	if f.Kind() != BucketList && f.Kind() != ObjectList {
		return false
	}
	m.PushOverlay(Overlay{Kind: FilterInput, Title: "Filter", Text: f.Filter, Original: f.Filter})
	return true
}

// CancelFilter closes the filter input and restores the previous filter.
func (m *Machine) CancelFilter() {
	o, ok := m.Overlay()
	if !ok || o.Kind != FilterInput {
		return
	}
	m.PopOverlay()
	m.ApplyFilter(o.Original)
}

// OpenSortMenu opens the sort menu of the current list frame with the cursor
// on the current sort key.
func (m *Machine) OpenSortMenu() bool {
	f := m.Current()
	options := SortOptions(f.Kind())
	if len(options) == 0 {
		return false
	}
	o := Overlay{Kind: SortMenu, Title: "Sort"}
	for i, k := range options {
		o.Items = append(o.Items, k.String())
		if k == f.Sort {
			o.Cursor = i
		}
	}
	m.PushOverlay(o)
	return true
}

// ConfirmSort applies the sort key under the cursor of the sort menu and closes it.
func (m *Machine) ConfirmSort() {
	o, ok := m.Overlay()
	if !ok || o.Kind != SortMenu {
		return
	}
	m.PopOverlay()
	options := SortOptions(m.Current().Kind())
	if o.Cursor >= 0 && o.Cursor < len(options) {
		m.ApplySort(options[o.Cursor])
	}
}

// OpenEncodingMenu opens the encoding menu of the current text preview.
func (m *Machine) OpenEncodingMenu(encodings []string) bool {
	p, ok := m.Current().View.(*ObjectPreviewView)
	if !ok || p.Data == nil || len(encodings) == 0 {
		return false
	}
	o := Overlay{Kind: EncodingMenu, Title: "Encoding", Items: encodings}
	if t, ok := p.Content.(preview.Text); ok {
		for i, e := range encodings {
			if e == t.EncodingUsed {
				o.Cursor = i
			}
		}
	}
	m.PushOverlay(o)
	return true
}

// ConfirmEncoding closes the encoding menu and returns the request
// re-decoding the preview with the encoding under the cursor.
func (m *Machine) ConfirmEncoding() Request {
	o, ok := m.Overlay()
	if !ok || o.Kind != EncodingMenu {
		return Request{}
	}
	m.PopOverlay()
	if o.Cursor < 0 || o.Cursor >= len(o.Items) {
		return Request{}
	}
	return m.Redecode(o.Items[o.Cursor])
}

// Notify sets the banner.
func (m *Machine) Notify(level BannerLevel, message string) {
	m.banner = &Banner{Level: level, Message: message}
}

// Banner returns the banner.
func (m *Machine) Banner() (Banner, bool) {
	if m.banner == nil {
		return Banner{}, false
	}
	return *m.banner, true
}

// ConsumeKey clears the banner on a key press. It returns true when the key
// only acknowledged an error banner and must not be handled further.
func (m *Machine) ConsumeKey() bool {
	if m.banner == nil {
		return false
	}
	isError := m.banner.Level == Error
	m.banner = nil
	return isError
}

// Handle applies a navigation action to the current frame. pageSize is the
// number of rows moved by PageDown and PageUp. Actions outside navigation
// (downloads, console, quit) are left to the caller and return false.
func (m *Machine) Handle(action Action, pageSize int) (Request, bool) {
	f := m.Current()
	if !Allowed(f.Kind(), action) {
		return Request{}, false
	}
	switch action {
	case MoveDown:
		m.Move(1)
	case MoveUp:
		m.Move(-1)
	case PageDown:
		m.Move(max(pageSize, 1))
	case PageUp:
		m.Move(-max(pageSize, 1))
	case GoTop:
		m.GoTop()
	case GoBottom:
		m.GoBottom()
	case Open:
		return m.Open(), true
	case Back:
		m.Back()
	case BackToRoot:
		m.BackToRoot()
	case Refresh:
		return m.Refresh(), true
	case Filter:
		m.OpenFilter()
	case ResetFilter:
		m.ApplyFilter("")
	case Sort:
		m.OpenSortMenu()
	case Versions:
		return m.OpenVersions(), true
	case Preview:
		return m.OpenPreview(), true
	case ToggleWrap:
		if p, ok := f.View.(*ObjectPreviewView); ok {
			p.Wrap = !p.Wrap
		}
	case ToggleNumbers:
		if p, ok := f.View.(*ObjectPreviewView); ok {
			p.LineNumbers = !p.LineNumbers
		}
	case Help:
		m.PushOverlay(Overlay{Kind: HelpOverlay, Title: "Help"})
	default:
		return Request{}, false
	}
	return Request{}, true
}
