package mailbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/panhunt/mailcore/pkg/malog"
)

// walkMessages recurses the folder tree depth-first, logging (not
// aborting) any folder that fails to decode so one bad sub-tree doesn't
// stop the whole traversal.
func walkMessages(folder Folder, log malog.Logger, fn func(Message) error) error {
	msgs, err := folder.Messages()
	if err != nil {
		log.Warnf("skipping folder %q: %v", folder.Path(), err)
		return nil
	}
	for _, m := range msgs {
		if err := fn(m); err != nil {
			log.Warnf("skipping message %q in %q: %v", m.Subject(), folder.Path(), err)
		}
	}

	subs, err := folder.Subfolders()
	if err != nil {
		log.Warnf("skipping sub-folders of %q: %v", folder.Path(), err)
		return nil
	}
	for _, sub := range subs {
		if err := walkMessages(sub, log, fn); err != nil {
			return err
		}
	}
	return nil
}

// ExportAttachments writes every attachment reachable from root into
// dir, one file per attachment. Name collisions are resolved by
// inserting "-N" before the extension, matching the rename-on-collision
// policy rather than silently overwriting.
func ExportAttachments(dir string, root Folder, log malog.View) error {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}

	used := map[string]int{}
	bar := log.NewProgress("export-attachments", 0)
	defer bar.Finish(true)

	return walkMessages(root, log, func(m Message) error {
		if !m.HasAttachments() {
			return nil
		}
		atts, err := m.Attachments()
		if err != nil {
			return err
		}
		for _, a := range atts {
			data, err := a.BinaryData()
			if err != nil {
				log.Warnf("skipping attachment %q: %v", a.Filename(), err)
				continue
			}
			name := uniqueName(used, a.Filename())
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, data, 0666); err != nil {
				return err
			}
			bar.Increment(1)
		}
		return nil
	})
}

func uniqueName(used map[string]int, name string) string {
	if name == "" {
		name = "[None]"
	}
	n := used[name]
	used[name] = n + 1
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s-%d%s", base, n, ext)
}

// ExportFolders writes one flat text file per folder under dir,
// listing each message's subject/sender/date, path separators escaped
// to "_" in the file name.
func ExportFolders(dir string, root Folder, log malog.View) error {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}

	bar := log.NewProgress("export-folders", 0)
	defer bar.Finish(true)

	return walkFolders(root, log, func(f Folder) error {
		msgs, err := f.Messages()
		if err != nil {
			return err
		}
		name := strings.ReplaceAll(strings.TrimPrefix(f.Path(), `\`), `\`, "_")
		if name == "" {
			name = "root"
		}
		path := filepath.Join(dir, name+".txt")

		var sb strings.Builder
		for _, m := range msgs {
			var date interface{} = ""
			if t := m.ClientSubmitTime(); t != nil {
				date = t.Time()
			}
			fmt.Fprintf(&sb, "%s\t%s\t%v\n", m.Subject(), m.SenderName(), date)
		}
		if err := os.WriteFile(path, []byte(sb.String()), 0666); err != nil {
			return err
		}
		bar.Increment(1)
		return nil
	})
}

func walkFolders(folder Folder, log malog.Logger, fn func(Folder) error) error {
	if err := fn(folder); err != nil {
		return err
	}
	subs, err := folder.Subfolders()
	if err != nil {
		log.Warnf("skipping sub-folders of %q: %v", folder.Path(), err)
		return nil
	}
	for _, sub := range subs {
		if err := walkFolders(sub, log, fn); err != nil {
			return err
		}
	}
	return nil
}
