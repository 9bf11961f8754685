package editor

import (
	"context"

	"studio/internal/domain"
	"studio/internal/layout"
	"studio/internal/notify"
)

// Command is a discrete context-menu action on a block.
type Command string

const (
	CmdDelete       Command = "delete"
	CmdDuplicate    Command = "duplicate"
	CmdCopy         Command = "copy"
	CmdPaste        Command = "paste"
	CmdToggleLock   Command = "toggle-lock"
	CmdBringToFront Command = "bring-to-front"
	CmdBringForward Command = "bring-forward"
	CmdSendBackward Command = "send-backward"
	CmdSendToBack   Command = "send-to-back"
	CmdClearAsset   Command = "clear-asset"
)

// Commands lists every command Dispatch understands.
var Commands = []Command{
	CmdDelete, CmdDuplicate, CmdCopy, CmdPaste, CmdToggleLock,
	CmdBringToFront, CmdBringForward, CmdSendBackward, CmdSendToBack,
	CmdClearAsset,
}

// FrontZIndex is the z-index given by bring-to-front.
const FrontZIndex = 9999

// Dispatch runs cmd against blockID. Unknown commands raise an info notice
// and change nothing; unknown blocks are ignored. Clear-asset on a locked
// block returns ErrBlockLocked.
func (s *Session) Dispatch(ctx context.Context, cmd Command, blockID string) error {
	switch cmd {
	case CmdDelete:
		s.UpdateBlock(blockID, DeletePatch, s.breakpoint)
		return nil
	case CmdDuplicate:
		_, _, err := s.Duplicate(ctx, blockID)
		return err
	case CmdCopy:
		s.Copy(ctx, blockID)
		return nil
	case CmdPaste:
		_, _, err := s.Paste(ctx)
		return err
	case CmdToggleLock:
		b, _, ok := s.doc.FindBlock(blockID)
		if !ok {
			return nil
		}
		locked := !b.Locked
		s.UpdateBlock(blockID, BlockPatch{Locked: &locked}, domain.Desktop)
		return nil
	case CmdBringToFront, CmdBringForward, CmdSendBackward, CmdSendToBack:
		s.layer(cmd, blockID)
		return nil
	case CmdClearAsset:
		return s.clearAsset(blockID)
	default:
		s.notify(ctx, notify.Info, string(cmd)+" is not yet available")
		return nil
	}
}

func (s *Session) layer(cmd Command, blockID string) {
	b, _, ok := s.doc.FindBlock(blockID)
	if !ok {
		return
	}
	z := layout.Resolve(b, s.breakpoint).Style.ZIndex()

	var next int
	switch cmd {
	case CmdBringToFront:
		if b.Type == domain.BlockTypeEmbeddedAsset {
			return
		}
		next = FrontZIndex
	case CmdBringForward:
		next = z + 1
	case CmdSendBackward:
		next = max(0, z-1)
	case CmdSendToBack:
		if b.Type == domain.BlockTypeEmbeddedAsset {
			return
		}
		next = 0
	default:
		return
	}
	s.UpdateBlock(blockID, BlockPatch{Style: domain.Style{domain.ZIndexKey: next}}, s.breakpoint)
}

// clearAsset empties the asset reference of image and embedded-asset blocks.
// It is a content edit, so locked blocks refuse it.
func (s *Session) clearAsset(blockID string) error {
	b, _, ok := s.doc.FindBlock(blockID)
	if !ok {
		return nil
	}
	key, ok := assetKey(b.Type)
	if !ok {
		return nil
	}
	_, err := s.guarded(blockID, BlockPatch{Content: domain.Content{key: ""}}, domain.Desktop)
	return err
}
