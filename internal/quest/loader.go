package quest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/model"
)

// manifest is one quest directory's on-disk descriptor: a single qid with
// one rendering per (version, language), parsed the way internal/config
// parses its own YAML documents.
type manifest struct {
	QID        uint32              `yaml:"qid"`
	Name       string              `yaml:"name"`
	ShortDesc  string              `yaml:"short_desc"`
	LongDesc   string              `yaml:"long_desc"`
	Category   string              `yaml:"category"` // normal | battle | challenge
	Episode    byte                `yaml:"episode"`
	MinPlayers int                 `yaml:"min_players"`
	MaxPlayers int                 `yaml:"max_players"`
	EventMask  uint32              `yaml:"event_mask"`
	Renderings []manifestRendering `yaml:"renderings"`
}

type manifestRendering struct {
	Version  string `yaml:"version"`  // dcv1 | dcv2 | pc | gc | ep3 | bb
	Language byte   `yaml:"language"`
	Prefix   string `yaml:"prefix"`
	Format   string `yaml:"format"` // bindat | qst
}

var versionNames = map[string]dialect.Version{
	"dcv1": dialect.DCv1,
	"dcv2": dialect.DCv2,
	"pc":   dialect.PC,
	"gc":   dialect.GC,
	"ep3":  dialect.Ep3,
	"bb":   dialect.BB,
}

var categoryNames = map[string]model.QuestCategory{
	"normal":    model.CategoryNormal,
	"battle":    model.CategoryBattle,
	"challenge": model.CategoryChallenge,
}

// DirLoader implements Loader by reading one manifest.yaml per quest
// subdirectory of Dir (§4.6, §1: "the on-disk directory layout ... is an
// external collaborator").
type DirLoader struct {
	Dir string
}

// Load implements Loader.
func (d DirLoader) Load(ctx context.Context) (map[uint32]*model.QuestMapEntry, error) {
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		return nil, fmt.Errorf("quest: reading catalog dir %s: %w", d.Dir, err)
	}

	out := make(map[uint32]*model.QuestMapEntry)
	for _, e := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(d.Dir, e.Name(), "manifest.yaml")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("quest: reading %s: %w", path, err)
		}

		var m manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("quest: parsing %s: %w", path, err)
		}

		entry := model.NewQuestMapEntry(m.QID)
		category := categoryNames[m.Category]

		langMaskByVersion := make(map[dialect.Version]uint32)
		for _, r := range m.Renderings {
			v, ok := versionNames[r.Version]
			if !ok {
				return nil, fmt.Errorf("quest: %s: unknown version %q", path, r.Version)
			}
			langMaskByVersion[v] |= model.LanguageBit(r.Language)
		}

		for _, r := range m.Renderings {
			v := versionNames[r.Version]
			format := model.FormatBinDat
			if r.Format == "qst" {
				format = model.FormatQST
			}

			desc := &model.QuestDescriptor{
				Prefix:       r.Prefix,
				Name:         m.Name,
				ShortDesc:    m.ShortDesc,
				LongDesc:     m.LongDesc,
				Format:       format,
				VersionMask:  model.VersionBit(v),
				LanguageMask: langMaskByVersion[v],
				EventMask:    m.EventMask,
				MinPlayers:   m.MinPlayers,
				MaxPlayers:   m.MaxPlayers,
				Episode:      m.Episode,
				Category:     category,
			}
			entry.Put(v, r.Language, desc)
		}
		out[m.QID] = entry
	}
	return out, nil
}
