package msgs

import (
	"errors"

	"github.com/golang/protobuf/proto"

	fx "github.com/mikeyg123/pi-alarm/pkg/framework"
)

// KeyPress is the event emitted for every valid key report.
type KeyPress struct {
	Code uint32 `protobuf:"varint,1,opt,name=code,proto3" json:"code"`
	Name string `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	// Time is the unix time in nanoseconds when the key was read.
	Time int64 `protobuf:"varint,3,opt,name=time,proto3" json:"time,omitempty"`
}

// NewMessage implements Message.
func (m *KeyPress) NewMessage() fx.Message { return &KeyPress{} }

// TypeID implements SerializableMessage.
func (m *KeyPress) TypeID() uint32 { return KeyPressTypeID }

// Serializable implements SerializableMessage.
func (m *KeyPress) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *KeyPress) ProtoMessage() {}

// Reset implements proto.Message.
func (m *KeyPress) Reset() { *m = KeyPress{} }

// String implements proto.Message.
func (m *KeyPress) String() string { return proto.CompactTextString(m) }

// LcdText replaces the text on the keypad display.
type LcdText struct {
	Text string `protobuf:"bytes,1,opt,name=text,proto3" json:"text"`
	// Clear sends the clear-screen sequence instead of Text.
	Clear bool `protobuf:"varint,2,opt,name=clear,proto3" json:"clear,omitempty"`
}

// NewMessage implements Message.
func (m *LcdText) NewMessage() fx.Message { return &LcdText{} }

// TypeID implements SerializableMessage.
func (m *LcdText) TypeID() uint32 { return LcdTextTypeID }

// Serializable implements SerializableMessage.
func (m *LcdText) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LcdText) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LcdText) Reset() { *m = LcdText{} }

// String implements proto.Message.
func (m *LcdText) String() string { return proto.CompactTextString(m) }

// LedState sets the zone and status LEDs.
type LedState struct {
	Zones uint32 `protobuf:"varint,1,opt,name=zones,proto3" json:"zones"`
	Leds  uint32 `protobuf:"varint,2,opt,name=leds,proto3" json:"leds"`
}

// NewMessage implements Message.
func (m *LedState) NewMessage() fx.Message { return &LedState{} }

// TypeID implements SerializableMessage.
func (m *LedState) TypeID() uint32 { return LedStateTypeID }

// Serializable implements SerializableMessage.
func (m *LedState) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LedState) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LedState) Reset() { *m = LedState{} }

// String implements proto.Message.
func (m *LedState) String() string { return proto.CompactTextString(m) }

// CommandErr reports a command that could not be carried out.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message"`
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return &CommandErr{Message: err.Error()}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandErr) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupKeypad  uint32 = 0x00030000
)

// TypeIDs
const (
	CommandErrTypeID uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	KeyPressTypeID   uint32 = TypeIDKindEvent | GroupKeypad | 0x0000
	LcdTextTypeID    uint32 = GroupKeypad | 0x0001
	LedStateTypeID   uint32 = GroupKeypad | 0x0002
)

var (
	// ErrUnknownCommand indicates the command is unknown.
	ErrUnknownCommand = errors.New("unknown command")
)
