package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/filex"
)

func formatParent(id *int64) string {
	if id == nil {
		return "root"
	}
	return fmt.Sprintf("%d", *id)
}

// List prints the root, or the folder given as the first argument.
func (a *App) List(ctx context.Context, args []string) error {
	var folderID *int64
	if len(args) > 0 {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		folderID = &id
	}

	c, err := a.drive.List(ctx, folderID)
	if err != nil {
		return err
	}

	a.printContents(c)
	return nil
}

func (a *App) printContents(c *models.FolderContents) {
	if c.Folder != nil {
		fmt.Fprintf(a.out, "%s (folder %d, parent %s)\n", c.Name, c.ID, formatParent(c.ParentFolderID))
	} else {
		fmt.Fprintln(a.out, "/")
	}

	if len(c.Subfolders) == 0 && len(c.Files) == 0 {
		fmt.Fprintln(a.out, "  (empty)")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  TYPE\tID\tNAME\tSIZE\tMIME")
	for _, f := range c.Subfolders {
		fmt.Fprintf(tw, "  dir\t%d\t%s\t\t\n", f.ID, f.Name)
	}
	for _, f := range c.Files {
		fmt.Fprintf(tw, "  file\t%d\t%s\t%d\t%s\n", f.ID, f.Name, f.Size, f.MimeType)
	}
	_ = tw.Flush()
}

// MakeDir creates a folder: mkdir [name] [parent-id].
func (a *App) MakeDir(ctx context.Context, args []string) error {
	name, err := argOrPrompt(args, 0, a.reader, "Folder name", a.out)
	if err != nil {
		return err
	}
	parentID, err := optionalParent(args, 1)
	if err != nil {
		return err
	}

	f, err := a.drive.MakeDir(ctx, name, parentID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created folder %d %q in %s\n", f.ID, f.Name, formatParent(f.ParentFolderID))
	return nil
}

// Upload sends a local file: upload [path] [parent-id]. The stored name is
// the base name of the path.
func (a *App) Upload(ctx context.Context, args []string) error {
	path, err := argOrPrompt(args, 0, a.reader, "Local file path", a.out)
	if err != nil {
		return err
	}
	parentID, err := optionalParent(args, 1)
	if err != nil {
		return err
	}

	content, err := filex.ReadLimited(path, a.config.MaxUploadBytes)
	if err != nil {
		return err
	}

	f, err := a.drive.Upload(ctx, filepath.Base(path), content, parentID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Uploaded file %d %q (%d bytes, %s)\n", f.ID, f.Name, f.Size, f.MimeType)
	return nil
}

// Download saves a file into the configured download directory.
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("download <file-id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	f, content, err := a.drive.Download(ctx, id)
	if err != nil {
		return err
	}

	dir, err := filex.EnsureDir(a.config.DownloadDir)
	if err != nil {
		return err
	}
	path, err := filex.SaveUnique(dir, f.Name, content)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved %q to %s (%d bytes)\n", f.Name, path, len(content))
	return nil
}

// Info prints file metadata.
func (a *App) Info(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("info <file-id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	f, err := a.drive.Info(ctx, id)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "id:\t%d\n", f.ID)
	fmt.Fprintf(tw, "name:\t%s\n", f.Name)
	fmt.Fprintf(tw, "size:\t%d\n", f.Size)
	fmt.Fprintf(tw, "mime:\t%s\n", f.MimeType)
	fmt.Fprintf(tw, "folder:\t%s\n", formatParent(f.ParentFolderID))
	if !f.CreatedAt.IsZero() {
		fmt.Fprintf(tw, "created:\t%s\n", f.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

// Rename: rename file|folder <id> [new name]. Everything after the id is
// the new name, so it may contain spaces.
func (a *App) Rename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("rename file|folder <id> [new name]")
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}

	name := strings.Join(args[2:], " ")
	if name == "" {
		if name, err = getSimpleText(a.reader, "New name", a.out); err != nil {
			return err
		}
	}

	switch args[0] {
	case "file":
		f, err := a.drive.RenameFile(ctx, id, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "File %d renamed to %q\n", f.ID, f.Name)
	case "folder", "dir":
		f, err := a.drive.RenameFolder(ctx, id, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Folder %d renamed to %q\n", f.ID, f.Name)
	default:
		return usage("rename file|folder <id> [new name]")
	}
	return nil
}

// Move moves a file: mv <file-id> <folder-id|root>.
func (a *App) Move(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("mv <file-id> <folder-id|root>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	parentID, err := parseParent(args[1])
	if err != nil {
		return err
	}

	f, err := a.drive.MoveFile(ctx, id, parentID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "File %d moved to %s\n", f.ID, formatParent(f.ParentFolderID))
	return nil
}

// MoveDir moves a folder with everything in it: mvdir <folder-id> <folder-id|root>.
func (a *App) MoveDir(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("mvdir <folder-id> <folder-id|root>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	parentID, err := parseParent(args[1])
	if err != nil {
		return err
	}

	f, err := a.drive.MoveFolder(ctx, id, parentID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Folder %d moved to %s\n", f.ID, formatParent(f.ParentFolderID))
	return nil
}

// Remove deletes a file: rm <file-id>.
func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("rm <file-id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := a.drive.RemoveFile(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "File %d deleted\n", id)
	return nil
}

// RemoveDir deletes a folder and its whole subtree after confirmation:
// rmdir <folder-id>.
func (a *App) RemoveDir(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("rmdir <folder-id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ok, err := confirm(a.reader, fmt.Sprintf("Delete folder %d with all its subfolders and files?", id), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.drive.RemoveFolder(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Folder %d deleted\n", id)
	return nil
}
