package poses

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
)

/**
 * @brief A read-only pose library loaded from a single pose file.
 * A Store is never modified after Load returns; loading again produces
 * a new Store.
 */
type Store struct {
	path  string
	poses map[string]*Pose
	order []string
}

// Load reads the pose document at path. The document is expected to look like
//
//	<root>
//	  <Wave>
//	    <Spine1>
//	      <translations tx="0.0" ty="1.5" tz="0.0"/>
//	      <rotations rx="0.0" ry="48.45" rz="0.0"/>
//	    </Spine1>
//	  </Wave>
//	</root>
//
// Errors match ErrEmptyPath, ErrFileNotFound or ErrParse.
func Load(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("stat pose file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrFileNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open pose file %s: %w", path, err)
	}
	defer f.Close()

	b := newBuilder()
	if err := decode(f, b); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	return b.build(path), nil
}

// Parse reads a pose document from r. Errors match ErrParse.
func Parse(r io.Reader) (*Store, error) {
	b := newBuilder()
	if err := decode(r, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return b.build(""), nil
}

func decode(r io.Reader, b *builder) error {
	dec := xml.NewDecoder(r)

	var (
		depth      int
		rootSeen   bool
		rootClosed bool
		pose       *Pose
		joint      *Joint
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				line, _ := dec.InputPos()
				return fmt.Errorf("line %d: element <%s> after the root element", line, t.Name.Local)
			}
			depth++
			switch depth {
			case 1:
				rootSeen = true
			case 2:
				pose = b.pose(t.Name.Local)
			case 3:
				joint = b.joint(pose, t.Name.Local)
			default:
				b.category(joint, t.Name.Local, attributes(t.Attr))
				// Anything nested below a category carries no pose data.
				if err := dec.Skip(); err != nil {
					return err
				}
				depth--
			}
		case xml.EndElement:
			depth--
			if depth == 0 {
				rootClosed = true
			}
		case xml.CharData:
			if depth == 0 && len(strings.TrimSpace(string(t))) > 0 {
				line, _ := dec.InputPos()
				return fmt.Errorf("line %d: text outside the root element", line)
			}
		}
	}

	if !rootSeen {
		return errors.New("document has no root element")
	}
	if depth != 0 {
		return io.ErrUnexpectedEOF
	}
	return nil
}

func attributes(attrs []xml.Attr) Attributes {
	if len(attrs) == 0 {
		return nil
	}
	out := make(Attributes, len(attrs))
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		out[a.Name.Local] = a.Value
	}
	return out
}

// Path is the file the store was loaded from, empty for Parse.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// HasPose reports whether the document defined the named pose.
func (s *Store) HasPose(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.poses[name]
	return ok
}

// Pose returns the named pose, or false when the document did not define it.
func (s *Store) Pose(name string) (*Pose, bool) {
	if s == nil {
		return nil, false
	}
	p, ok := s.poses[name]
	return p, ok
}

// PoseNames returns the pose names in document order.
func (s *Store) PoseNames() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.order)
}

func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}
