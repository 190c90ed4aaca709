// Command sela encodes WAV files to the sela format and decodes them back.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hello/sela"
	"github.com/hello/sela/internal/wavio"
	"github.com/pkg/errors"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s encode <input.wav> <output.hlo>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s decode <input.hlo> <output.wav>\n", os.Args[0])
	}
	flag.Parse()

	args := flag.Args()
	if len(args) != 3 {
		flag.Usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "encode":
		err = encode(args[1], args[2])
	case "decode":
		err = decode(args[1], args[2])
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%+v", err)
	}
}

// printProgress redraws the percentage bar in place, the same 25-segment
// shape original_source/core/encode.c and decode.c print: "\r[===  ]".
func printProgress(done, total uint64) {
	percent := 0
	if total > 0 {
		percent = int(done * 100 / total)
		if percent > 100 {
			percent = 100
		}
	}
	segments := percent / 4

	fmt.Fprint(os.Stderr, "\r[")
	for i := 0; i < segments; i++ {
		fmt.Fprint(os.Stderr, "=")
	}
	for i := segments; i < 25; i++ {
		fmt.Fprint(os.Stderr, " ")
	}
	fmt.Fprint(os.Stderr, "]")
}

func encode(wavPath, outPath string) error {
	in, err := os.Open(wavPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer in.Close()

	inInfo, err := in.Stat()
	if err != nil {
		return errors.WithStack(err)
	}

	r, err := wavio.NewReader(bufio.NewReader(in))
	if err != nil {
		return errors.WithStack(err)
	}

	fmt.Fprintln(os.Stderr, "\nStream Information")
	fmt.Fprintln(os.Stderr, "------------------")
	fmt.Fprintf(os.Stderr, "Sampling Rate : %d Hz\n", r.SampleRate)
	fmt.Fprintf(os.Stderr, "Bits per sample : %d\n", r.BitDepth)
	fmt.Fprintf(os.Stderr, "Channels : %d\n", r.Channels)

	out, err := os.Create(outPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer out.Close()
	bw := bufio.NewWriter(out)

	enc, err := sela.NewEncoder(bw, int32(r.SampleRate), 16, int8(r.Channels), r.TotalFrames)
	if err != nil {
		return errors.WithStack(err)
	}

	// estimatedBlocks is only the denominator of the progress bar; the
	// container's own estimated_frames field is advisory, so a bar that
	// over- or under-shoots 100% on exit is expected, not a bug.
	estimatedBlocks := uint64(0)
	if r.Channels > 0 {
		estimatedBlocks = (uint64(r.TotalFrames) + sela.BlockSize - 1) / sela.BlockSize
	}

	blockLen := sela.BlockSize * r.Channels
	buf := make([]int16, blockLen)
	for {
		n, err := r.ReadBlock(buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return errors.WithStack(err)
		}
		if n == 0 {
			break
		}
		if err := enc.EncodeBlock(buf[:n]); err != nil {
			return errors.WithStack(err)
		}
		printProgress(enc.Stats().Frames, estimatedBlocks)
		if n < blockLen {
			break
		}
	}
	fmt.Fprintln(os.Stderr)

	if err := enc.Close(); err != nil {
		return errors.WithStack(err)
	}
	if err := bw.Flush(); err != nil {
		return errors.WithStack(err)
	}

	stats := enc.Stats()
	seconds := stats.Frames * sela.BlockSize / uint64(r.SampleRate)

	fmt.Fprintln(os.Stderr, "\nStatistics")
	fmt.Fprintln(os.Stderr, "----------")
	fmt.Fprintf(os.Stderr, "%d frames written (%dmin %dsec)\n", stats.Frames, seconds/60, seconds%60)
	fmt.Fprintf(os.Stderr, "Compression Ratio : %0.2f%%\n", 100*float64(stats.Bytes)/float64(inInfo.Size()))
	if seconds > 0 {
		fmt.Fprintf(os.Stderr, "Bitrate : %d kbps\n", stats.Bytes*8/(seconds*1000))
	}
	fmt.Fprintf(os.Stderr, "MD5 : %x\n", stats.MD5Sum)

	return nil
}

func decode(inPath, wavPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer in.Close()

	dec, err := sela.NewDecoder(bufio.NewReader(in))
	if err != nil {
		return errors.WithStack(err)
	}

	out, err := os.Create(wavPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer out.Close()

	w := wavio.NewWriter(out, int(dec.Info.SampleRate), int(dec.Info.Channels))

	// EstimatedFrames is advisory (§6.1: "for progress only; not
	// authoritative"), so it is only used here to size the progress bar
	// and to trim the zero padding sela.BlockSize adds to a short final
	// block, never trusted for anything the core itself depends on.
	estimatedBlocks := (uint64(dec.Info.EstimatedFrames) + sela.BlockSize - 1) / sela.BlockSize
	remaining := int64(dec.Info.EstimatedFrames)
	trimmed := remaining > 0

	for {
		block, err := dec.DecodeBlock()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return errors.WithStack(err)
		}

		if trimmed {
			n := int64(len(block) / int(dec.Info.Channels))
			if n > remaining {
				block = block[:remaining*int64(dec.Info.Channels)]
			}
			remaining -= int64(len(block) / int(dec.Info.Channels))
		}

		if err := w.WriteBlock(block); err != nil {
			return errors.WithStack(err)
		}
		printProgress(dec.Stats().Frames, estimatedBlocks)

		if trimmed && remaining <= 0 {
			break
		}
	}
	fmt.Fprintln(os.Stderr)

	if err := w.Close(); err != nil {
		return errors.WithStack(err)
	}

	stats := dec.Stats()
	seconds := stats.Frames * sela.BlockSize / uint64(dec.Info.SampleRate)

	fmt.Fprintln(os.Stderr, "\nStatistics")
	fmt.Fprintln(os.Stderr, "----------")
	fmt.Fprintf(os.Stderr, "%d frames decoded. %dmin %dsec of audio\n", stats.Frames, seconds/60, seconds%60)

	return nil
}
