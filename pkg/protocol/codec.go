package protocol

import "fmt"

// EncodeCommand encodes a command to bytes.
func EncodeCommand(c Command) []byte {
	e := NewEncoderWithCap(16 + len(c.Target) + len(c.Markup) + len(c.Key) + len(c.Value))
	EncodeCommandTo(e, c)
	return e.Bytes()
}

// EncodeCommandTo encodes a command using the provided encoder.
func EncodeCommandTo(e *Encoder, c Command) {
	e.WriteByte(byte(c.Op))
	e.WriteString(c.Target)

	switch c.Op {
	case OpReplaceElement, OpReplaceContent, OpAppendChild:
		e.WriteString(c.Markup)

	case OpRemoveTrailingChildren:
		e.WriteUvarint(uint64(c.Count))

	case OpSetAttr:
		e.WriteString(c.Key)
		e.WriteBool(c.HasValue)
		if c.HasValue {
			e.WriteString(c.Value)
		}

	case OpRemoveAttr:
		e.WriteString(c.Key)
	}
}

// DecodeCommand decodes a single command. The whole buffer must be consumed.
func DecodeCommand(data []byte) (Command, error) {
	d := NewDecoder(data)
	c, err := DecodeCommandFrom(d)
	if err != nil {
		return Command{}, err
	}
	if !d.EOF() {
		return Command{}, fmt.Errorf("%w: %d", ErrTrailingBytes, d.Remaining())
	}
	return c, nil
}

// DecodeCommandFrom decodes a command from the decoder and validates it.
func DecodeCommandFrom(d *Decoder) (Command, error) {
	var c Command

	op, err := d.ReadByte()
	if err != nil {
		return c, err
	}
	c.Op = Op(op)
	if !c.Op.Valid() {
		return Command{}, fmt.Errorf("%w: 0x%02x", ErrUnknownOp, op)
	}

	if c.Target, err = d.ReadString(); err != nil {
		return Command{}, err
	}

	switch c.Op {
	case OpReplaceElement, OpReplaceContent, OpAppendChild:
		if c.Markup, err = d.ReadString(); err != nil {
			return Command{}, err
		}

	case OpRemoveTrailingChildren:
		n, err := d.ReadUvarint()
		if err != nil {
			return Command{}, err
		}
		if n > DefaultMaxAllocation {
			return Command{}, fmt.Errorf("%w: count %d", ErrInvalidCommand, n)
		}
		c.Count = int(n)

	case OpSetAttr:
		if c.Key, err = d.ReadString(); err != nil {
			return Command{}, err
		}
		if c.HasValue, err = d.ReadBool(); err != nil {
			return Command{}, err
		}
		if c.HasValue {
			if c.Value, err = d.ReadString(); err != nil {
				return Command{}, err
			}
		}

	case OpRemoveAttr:
		if c.Key, err = d.ReadString(); err != nil {
			return Command{}, err
		}
	}

	if err := c.Validate(); err != nil {
		return Command{}, err
	}
	return c, nil
}
