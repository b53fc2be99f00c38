package quest

import (
	"fmt"
	"io"

	"github.com/psoserv/blockserver/internal/dialect"
	"github.com/psoserv/blockserver/internal/model"
)

const (
	// BinDatChunkSize is the chunk size for interleaved .bin/.dat delivery
	// (§4.6 step 2).
	BinDatChunkSize = 0x400
	// QSTChunkSize is the chunk size for prepackaged QST container
	// delivery (§4.6 step 3).
	QSTChunkSize = 64 * 1024
)

// FileOpener resolves a quest file path to a reader. The directory layout
// (<quest_dir>/<ver_code>-<lang_code>/<prefix>.{bin,dat,qst}) and any
// on-disk representation are external per §1; this is the one seam a
// deployment must supply.
type FileOpener interface {
	Open(versionCode, langCode, filename string) (io.ReadCloser, int64, error)
}

// Decompressor extracts a QST-equivalent container into its constituent
// bytes — the "decompress(bytes) -> bytes" primitive §1 assumes provided,
// used only for the compressed variant of the container format.
type Decompressor func(compressed []byte) ([]byte, error)

// Chunk is one unit handed to the caller's packet constructor for the
// CHUNK outbound family.
type Chunk struct {
	Filename string
	Index    int
	Data     []byte
}

// FileInfo describes one file-info record preceding a BINDAT delivery.
type FileInfo struct {
	Filename string
	Length   int64
	Title    string
}

// Sink receives the file-info records and chunks of a delivery, in the
// order they must be transmitted. The caller wraps a Sink around its
// per-session packet constructors and Conn.EnqueuePacket.
type Sink interface {
	FileInfo(FileInfo) error
	Chunk(Chunk) error
}

// ResolveForMember picks the best descriptor for v given the member's
// fallback chain (§4.6 delivery step 1); ok is false when no descriptor
// resolves, meaning the caller must disconnect that session per §4.6
// ("a recoverable disaster state").
func ResolveForMember(entry *model.QuestMapEntry, v dialect.Version, questLang, charLang, leaderLang byte) (*model.QuestDescriptor, bool) {
	return entry.Resolve(v, questLang, charLang, leaderLang)
}

// DeliverBinDat streams a BINDAT-format quest to sink: two file-info
// records, then chunks interleaved .dat/.bin until both files are
// exhausted (§4.6 step 2).
func DeliverBinDat(opener FileOpener, versionCode, langCode string, d *model.QuestDescriptor, sink Sink) error {
	datName := d.Prefix + ".dat"
	binName := d.Prefix + ".bin"

	dat, datLen, err := opener.Open(versionCode, langCode, datName)
	if err != nil {
		return fmt.Errorf("quest: open %s: %w", datName, err)
	}
	defer dat.Close()
	bin, binLen, err := opener.Open(versionCode, langCode, binName)
	if err != nil {
		return fmt.Errorf("quest: open %s: %w", binName, err)
	}
	defer bin.Close()

	title := "PSO/" + d.Name
	if err := sink.FileInfo(FileInfo{Filename: datName, Length: datLen, Title: title}); err != nil {
		return err
	}
	if err := sink.FileInfo(FileInfo{Filename: binName, Length: binLen, Title: title}); err != nil {
		return err
	}

	return interleaveChunks(dat, datName, bin, binName, sink)
}

// interleaveChunks alternates .dat then .bin chunks of BinDatChunkSize
// until both readers are exhausted, per §4.6 step 2.
func interleaveChunks(dat io.Reader, datName string, bin io.Reader, binName string, sink Sink) error {
	datDone, binDone := false, false
	datIdx, binIdx := 0, 0
	buf := make([]byte, BinDatChunkSize)

	for !datDone || !binDone {
		if !datDone {
			n, err := io.ReadFull(dat, buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				if err := sink.Chunk(Chunk{Filename: datName, Index: datIdx, Data: chunk}); err != nil {
					return err
				}
				datIdx++
			}
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				datDone = true
			} else if err != nil {
				return fmt.Errorf("quest: reading %s: %w", datName, err)
			}
		}
		if !binDone {
			n, err := io.ReadFull(bin, buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				if err := sink.Chunk(Chunk{Filename: binName, Index: binIdx, Data: chunk}); err != nil {
					return err
				}
				binIdx++
			}
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				binDone = true
			} else if err != nil {
				return fmt.Errorf("quest: reading %s: %w", binName, err)
			}
		}
	}
	return nil
}

// DeliverQST streams a prepackaged QST container in QSTChunkSize
// increments, alignment-preserving (§4.6 step 3): the server only chunks,
// the bytes are already shaped as the client's download protocol.
func DeliverQST(opener FileOpener, versionCode, langCode string, d *model.QuestDescriptor, sink Sink) error {
	name := d.Prefix + ".qst"
	f, length, err := opener.Open(versionCode, langCode, name)
	if err != nil {
		return fmt.Errorf("quest: open %s: %w", name, err)
	}
	defer f.Close()

	if err := sink.FileInfo(FileInfo{Filename: name, Length: length, Title: "PSO/" + d.Name}); err != nil {
		return err
	}

	buf := make([]byte, QSTChunkSize)
	idx := 0
	for {
		n, err := f.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if err := sink.Chunk(Chunk{Filename: name, Index: idx, Data: chunk}); err != nil {
				return err
			}
			idx++
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("quest: reading %s: %w", name, err)
		}
	}
}
