package quest

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/psoserv/blockserver/internal/model"
)

type fakeOpener struct {
	files map[string][]byte
}

func (f fakeOpener) Open(versionCode, langCode, filename string) (io.ReadCloser, int64, error) {
	data := f.files[filename]
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

type recordingSink struct {
	infos  []FileInfo
	chunks []Chunk
}

func (s *recordingSink) FileInfo(fi FileInfo) error {
	s.infos = append(s.infos, fi)
	return nil
}

func (s *recordingSink) Chunk(c Chunk) error {
	s.chunks = append(s.chunks, c)
	return nil
}

func TestDeliverBinDatInterleavesChunks(t *testing.T) {
	opener := fakeOpener{files: map[string][]byte{
		"quest.dat": make([]byte, BinDatChunkSize+10),
		"quest.bin": make([]byte, 5),
	}}
	d := &model.QuestDescriptor{Prefix: "quest", Name: "Test Quest"}
	sink := &recordingSink{}

	require.NoError(t, DeliverBinDat(opener, "dc", "e", d, sink))

	require.Len(t, sink.infos, 2)
	require.Equal(t, "quest.dat", sink.infos[0].Filename)
	require.Equal(t, "quest.bin", sink.infos[1].Filename)

	require.Len(t, sink.chunks, 3) // 2 dat chunks (1024 + 10) + 1 bin chunk
	require.Equal(t, "quest.dat", sink.chunks[0].Filename)
	require.Equal(t, "quest.bin", sink.chunks[1].Filename)
	require.Equal(t, "quest.dat", sink.chunks[2].Filename)
}

func TestDeliverQSTChunksSequentially(t *testing.T) {
	opener := fakeOpener{files: map[string][]byte{
		"quest.qst": make([]byte, QSTChunkSize+1),
	}}
	d := &model.QuestDescriptor{Prefix: "quest", Name: "Test Quest"}
	sink := &recordingSink{}

	require.NoError(t, DeliverQST(opener, "dc", "e", d, sink))
	require.Len(t, sink.chunks, 2)
	require.Equal(t, 0, sink.chunks[0].Index)
	require.Equal(t, 1, sink.chunks[1].Index)
}
