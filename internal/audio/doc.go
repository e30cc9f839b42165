// Package audio post-processes conversion outputs: ID3 tag rewriting
// and playlist generation.
//
// # ID3 Tagging
//
// SaveTags rewrites an MP3 output's ID3v2.4 frames from the resolved
// canonical tags:
//
//	err := audio.SaveTags(outputPath, tags, artworkBytes)
//
// Written frames:
//   - Title, Artist, Album, Genre
//   - Recording time (TDRC), Track Number (TRCK), Disc (TPOS)
//   - Composer (TCOM), Lyricist (TEXT)
//   - Front cover picture (APIC)
//
// # Playlist Generation
//
// CreatePlaylist builds extended M3U content for one output
// directory:
//
//	content := audio.CreatePlaylist(entries)
//	err := ioutils.WriteFile(filepath.Join(dir, "playlist.m3u8"), []byte(content))
package audio
