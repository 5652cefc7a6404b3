package label

import (
	"fmt"
	"path"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/util"

	"github.com/lewtec/photolabel/internal/domain"
	"github.com/lewtec/photolabel/internal/media/sniffer"
)

// ReadSource loads a file into an ImageSource. The media type is taken
// from the extension or sniffed from the content.
func ReadSource(fs billy.Basic, filename string) (domain.ImageSource, error) {
	info, err := fs.Stat(filename)
	if err != nil {
		return domain.ImageSource{}, fmt.Errorf("while reading %s: %w", filename, err)
	}
	if info.IsDir() {
		return domain.ImageSource{}, fmt.Errorf("while reading %s: is a directory", filename)
	}
	data, err := util.ReadFile(fs, filename)
	if err != nil {
		return domain.ImageSource{}, fmt.Errorf("while reading %s: %w", filename, err)
	}
	name := path.Base(filename)
	return domain.ImageSource{
		Filename:     name,
		MediaType:    sniffer.Resolve("", name, data),
		LastModified: info.ModTime(),
		Data:         data,
	}, nil
}
