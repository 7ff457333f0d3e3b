// cpu_z80_ops.go - Z80 base instruction set: opcode dispatch table and
// the literal ISA semantics behind it (ALU ops, 16-bit INC/DEC, block
// moves excepted - those live under the ED prefix in cpu_z80_ed_cb.go).
//
// Kept as a near-verbatim port of /tmp/stage (IntuitionEngine cpu_z80.go):
// this is literal, invariant Z80 instruction semantics, not something
// the domain spec has any say over.
package main

func (c *CPUZ80) initBaseOps() {
	for i := range c.baseOps {
		c.baseOps[i] = (*CPUZ80).opUnimplemented
	}

	c.baseOps[0x00] = (*CPUZ80).opNOP
	c.baseOps[0x76] = (*CPUZ80).opHALT

	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		if opcode == 0x76 {
			continue
		}
		op := opcode
		dest := byte((op >> 3) & 0x07)
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ80) {
			cpu.opLDRegReg(dest, src)
		}
	}

	ldRegImmOpcodes := map[byte]byte{
		0x06: 0,
		0x0E: 1,
		0x16: 2,
		0x1E: 3,
		0x26: 4,
		0x2E: 5,
		0x36: 6,
		0x3E: 7,
	}
	for opcode, reg := range ldRegImmOpcodes {
		op := opcode
		dest := reg
		c.baseOps[op] = func(cpu *CPUZ80) {
			cpu.opLDRegImm(dest)
		}
	}

	for opcode := 0x80; opcode <= 0x87; opcode++ {
		op := opcode
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ80) {
			cpu.opALUReg(aluAdd, src)
		}
	}
	for opcode := 0x88; opcode <= 0x8F; opcode++ {
		op := opcode
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ80) {
			cpu.opALUReg(aluAdc, src)
		}
	}
	for opcode := 0x90; opcode <= 0x97; opcode++ {
		op := opcode
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ80) {
			cpu.opALUReg(aluSub, src)
		}
	}
	for opcode := 0x98; opcode <= 0x9F; opcode++ {
		op := opcode
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ80) {
			cpu.opALUReg(aluSbc, src)
		}
	}
	for opcode := 0xA0; opcode <= 0xA7; opcode++ {
		op := opcode
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ80) {
			cpu.opALUReg(aluAnd, src)
		}
	}
	for opcode := 0xA8; opcode <= 0xAF; opcode++ {
		op := opcode
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ80) {
			cpu.opALUReg(aluXor, src)
		}
	}
	for opcode := 0xB0; opcode <= 0xB7; opcode++ {
		op := opcode
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ80) {
			cpu.opALUReg(aluOr, src)
		}
	}
	for opcode := 0xB8; opcode <= 0xBF; opcode++ {
		op := opcode
		src := byte(op & 0x07)
		c.baseOps[op] = func(cpu *CPUZ80) {
			cpu.opALUReg(aluCp, src)
		}
	}

	c.baseOps[0xC6] = (*CPUZ80).opADDImm
	c.baseOps[0xCE] = (*CPUZ80).opADCImm
	c.baseOps[0xD6] = (*CPUZ80).opSUBImm
	c.baseOps[0xDE] = (*CPUZ80).opSBCImm
	c.baseOps[0xE6] = (*CPUZ80).opANDImm
	c.baseOps[0xEE] = (*CPUZ80).opXORImm
	c.baseOps[0xF6] = (*CPUZ80).opORImm
	c.baseOps[0xFE] = (*CPUZ80).opCPImm

	c.baseOps[0x27] = (*CPUZ80).opDAA
	c.baseOps[0x2F] = (*CPUZ80).opCPL
	c.baseOps[0x37] = (*CPUZ80).opSCF
	c.baseOps[0x3F] = (*CPUZ80).opCCF

	c.baseOps[0x01] = (*CPUZ80).opLDBCNN
	c.baseOps[0x11] = (*CPUZ80).opLDDENN
	c.baseOps[0x21] = (*CPUZ80).opLDHLImm
	c.baseOps[0x31] = (*CPUZ80).opLDSPNN
	c.baseOps[0x09] = (*CPUZ80).opADDHLBC
	c.baseOps[0x19] = (*CPUZ80).opADDHLDE
	c.baseOps[0x29] = (*CPUZ80).opADDHLHL
	c.baseOps[0x39] = (*CPUZ80).opADDHLSP
	c.baseOps[0x03] = (*CPUZ80).opINCBC
	c.baseOps[0x13] = (*CPUZ80).opINCDE
	c.baseOps[0x23] = (*CPUZ80).opINCHL
	c.baseOps[0x33] = (*CPUZ80).opINCSP
	c.baseOps[0x0B] = (*CPUZ80).opDECBC
	c.baseOps[0x1B] = (*CPUZ80).opDECDE
	c.baseOps[0x2B] = (*CPUZ80).opDECHL
	c.baseOps[0x3B] = (*CPUZ80).opDECSP
	c.baseOps[0xC5] = (*CPUZ80).opPUSHBC
	c.baseOps[0xD5] = (*CPUZ80).opPUSHDE
	c.baseOps[0xE5] = (*CPUZ80).opPUSHLH
	c.baseOps[0xF5] = (*CPUZ80).opPUSHAF
	c.baseOps[0xC1] = (*CPUZ80).opPOPBC
	c.baseOps[0xD1] = (*CPUZ80).opPOPDE
	c.baseOps[0xE1] = (*CPUZ80).opPOPHL
	c.baseOps[0xF1] = (*CPUZ80).opPOPAF
	c.baseOps[0xC3] = (*CPUZ80).opJPNN
	c.baseOps[0x18] = (*CPUZ80).opJR
	c.baseOps[0x10] = (*CPUZ80).opDJNZ
	c.baseOps[0xCD] = (*CPUZ80).opCALLNN
	c.baseOps[0xC9] = (*CPUZ80).opRET
	c.baseOps[0xE3] = (*CPUZ80).opEXSPHL
	c.baseOps[0x08] = (*CPUZ80).opEXAF
	c.baseOps[0xEB] = (*CPUZ80).opEXDEHL
	c.baseOps[0xD9] = (*CPUZ80).opEXX
	c.baseOps[0xE9] = (*CPUZ80).opJPHL
	c.baseOps[0x22] = (*CPUZ80).opLDNNHL
	c.baseOps[0x2A] = (*CPUZ80).opLDHLNN
	c.baseOps[0x32] = (*CPUZ80).opLDNNA
	c.baseOps[0x3A] = (*CPUZ80).opLDANN
	c.baseOps[0x02] = (*CPUZ80).opLDBCA
	c.baseOps[0x0A] = (*CPUZ80).opLDABC
	c.baseOps[0x12] = (*CPUZ80).opLDDEA
	c.baseOps[0x1A] = (*CPUZ80).opLDABD
	c.baseOps[0xF9] = (*CPUZ80).opLDSPHL
	c.baseOps[0xD3] = (*CPUZ80).opOUTNA
	c.baseOps[0xDB] = (*CPUZ80).opINAN
	c.baseOps[0x07] = (*CPUZ80).opRLCA
	c.baseOps[0x0F] = (*CPUZ80).opRRCA
	c.baseOps[0x17] = (*CPUZ80).opRLA
	c.baseOps[0x1F] = (*CPUZ80).opRRA
	c.baseOps[0xC7] = (*CPUZ80).opRST00
	c.baseOps[0xCF] = (*CPUZ80).opRST08
	c.baseOps[0xD7] = (*CPUZ80).opRST10
	c.baseOps[0xDF] = (*CPUZ80).opRST18
	c.baseOps[0xE7] = (*CPUZ80).opRST20
	c.baseOps[0xEF] = (*CPUZ80).opRST28
	c.baseOps[0xF7] = (*CPUZ80).opRST30
	c.baseOps[0xFF] = (*CPUZ80).opRST38
	c.baseOps[0x04] = (*CPUZ80).opINCB
	c.baseOps[0x0C] = (*CPUZ80).opINCC
	c.baseOps[0x14] = (*CPUZ80).opINCD
	c.baseOps[0x1C] = (*CPUZ80).opINCE
	c.baseOps[0x24] = (*CPUZ80).opINCH
	c.baseOps[0x2C] = (*CPUZ80).opINCL
	c.baseOps[0x34] = (*CPUZ80).opINCHLMem
	c.baseOps[0x3C] = (*CPUZ80).opINCA
	c.baseOps[0x05] = (*CPUZ80).opDECB
	c.baseOps[0x0D] = (*CPUZ80).opDECC
	c.baseOps[0x15] = (*CPUZ80).opDECD
	c.baseOps[0x1D] = (*CPUZ80).opDECE
	c.baseOps[0x25] = (*CPUZ80).opDECH
	c.baseOps[0x2D] = (*CPUZ80).opDECL
	c.baseOps[0x35] = (*CPUZ80).opDECHLMem
	c.baseOps[0x3D] = (*CPUZ80).opDECA
	c.baseOps[0xC2] = (*CPUZ80).opJPNZ
	c.baseOps[0xCA] = (*CPUZ80).opJPZ
	c.baseOps[0xD2] = (*CPUZ80).opJPNC
	c.baseOps[0xDA] = (*CPUZ80).opJPC
	c.baseOps[0xE2] = (*CPUZ80).opJPPO
	c.baseOps[0xEA] = (*CPUZ80).opJPPE
	c.baseOps[0xF2] = (*CPUZ80).opJPNS
	c.baseOps[0xFA] = (*CPUZ80).opJPS
	c.baseOps[0x20] = (*CPUZ80).opJRNZ
	c.baseOps[0x28] = (*CPUZ80).opJRZ
	c.baseOps[0x30] = (*CPUZ80).opJRNC
	c.baseOps[0x38] = (*CPUZ80).opJRC
	c.baseOps[0xC4] = (*CPUZ80).opCALLNZ
	c.baseOps[0xCC] = (*CPUZ80).opCALLZ
	c.baseOps[0xD4] = (*CPUZ80).opCALLNC
	c.baseOps[0xDC] = (*CPUZ80).opCALLC
	c.baseOps[0xE4] = (*CPUZ80).opCALLPO
	c.baseOps[0xEC] = (*CPUZ80).opCALLPE
	c.baseOps[0xF4] = (*CPUZ80).opCALLNS
	c.baseOps[0xFC] = (*CPUZ80).opCALLS
	c.baseOps[0xC0] = (*CPUZ80).opRETNZ
	c.baseOps[0xC8] = (*CPUZ80).opRETZ
	c.baseOps[0xD0] = (*CPUZ80).opRETNC
	c.baseOps[0xD8] = (*CPUZ80).opRETC
	c.baseOps[0xE0] = (*CPUZ80).opRETPO
	c.baseOps[0xE8] = (*CPUZ80).opRETPE
	c.baseOps[0xF0] = (*CPUZ80).opRETNS
	c.baseOps[0xF8] = (*CPUZ80).opRETS
	c.baseOps[0xCB] = (*CPUZ80).opCBPrefix
	c.baseOps[0xDD] = (*CPUZ80).opDDPrefix
	c.baseOps[0xFD] = (*CPUZ80).opFDPrefix
	c.baseOps[0xED] = (*CPUZ80).opEDPrefix
	c.baseOps[0xF3] = (*CPUZ80).opDI
	c.baseOps[0xFB] = (*CPUZ80).opEI
}

func (c *CPUZ80) opUnimplemented() {
	c.tick(4)
}

func (c *CPUZ80) opNOP() {
	c.tick(4)
}

func (c *CPUZ80) opHALT() {
	c.Halted = true
	c.tick(4)
}

func (c *CPUZ80) opLDRegReg(dest, src byte) {
	value := c.readReg8(src)
	c.writeReg8(dest, value)
	if dest == 6 || src == 6 {
		c.tick(7)
	} else {
		c.tick(4)
	}
}

func (c *CPUZ80) opLDRegImm(dest byte) {
	value := c.fetchByte()
	c.writeReg8(dest, value)
	if dest == 6 {
		c.tick(10)
	} else {
		c.tick(7)
	}
}

type aluOp byte

const (
	aluAdd aluOp = iota
	aluAdc
	aluSub
	aluSbc
	aluAnd
	aluXor
	aluOr
	aluCp
)

func (c *CPUZ80) opALUReg(op aluOp, src byte) {
	value := c.readReg8(src)
	c.performALU(op, value)
	if src == 6 {
		c.tick(7)
	} else {
		c.tick(4)
	}
}

func (c *CPUZ80) opADDImm() {
	value := c.fetchByte()
	c.performALU(aluAdd, value)
	c.tick(7)
}

func (c *CPUZ80) opADCImm() {
	value := c.fetchByte()
	c.performALU(aluAdc, value)
	c.tick(7)
}

func (c *CPUZ80) opSUBImm() {
	value := c.fetchByte()
	c.performALU(aluSub, value)
	c.tick(7)
}

func (c *CPUZ80) opSBCImm() {
	value := c.fetchByte()
	c.performALU(aluSbc, value)
	c.tick(7)
}

func (c *CPUZ80) opANDImm() {
	value := c.fetchByte()
	c.performALU(aluAnd, value)
	c.tick(7)
}

func (c *CPUZ80) opXORImm() {
	value := c.fetchByte()
	c.performALU(aluXor, value)
	c.tick(7)
}

func (c *CPUZ80) opORImm() {
	value := c.fetchByte()
	c.performALU(aluOr, value)
	c.tick(7)
}

func (c *CPUZ80) opCPImm() {
	value := c.fetchByte()
	c.performALU(aluCp, value)
	c.tick(7)
}

func (c *CPUZ80) opDAA() {
	a := c.A
	adj := byte(0)
	carry := c.Flag(z80FlagC)
	if c.Flag(z80FlagH) || (!c.Flag(z80FlagN) && (a&0x0F) > 0x09) {
		adj |= 0x06
	}
	if carry || (!c.Flag(z80FlagN) && a > 0x99) {
		adj |= 0x60
	}

	var res byte
	if c.Flag(z80FlagN) {
		res = a - adj
	} else {
		res = a + adj
	}

	c.A = res
	c.F &^= z80FlagS | z80FlagZ | z80FlagPV | z80FlagH | z80FlagC | z80FlagX | z80FlagY
	if res == 0 {
		c.F |= z80FlagZ
	}
	if res&0x80 != 0 {
		c.F |= z80FlagS
	}
	if parity8(res) {
		c.F |= z80FlagPV
	}
	if c.Flag(z80FlagN) {
		if (a^res)&0x10 != 0 {
			c.F |= z80FlagH
		}
	} else if (a&0x0F)+byte(adj&0x0F) > 0x0F {
		c.F |= z80FlagH
	}
	if adj >= 0x60 {
		c.F |= z80FlagC
	}
	c.F |= res & (z80FlagX | z80FlagY)
	c.tick(4)
}

func (c *CPUZ80) opCPL() {
	c.A = ^c.A
	c.F = (c.F & (z80FlagS | z80FlagZ | z80FlagPV | z80FlagC)) | z80FlagH | z80FlagN
	c.F |= c.A & (z80FlagX | z80FlagY)
	c.tick(4)
}

func (c *CPUZ80) opSCF() {
	c.F = (c.F & (z80FlagS | z80FlagZ | z80FlagPV)) | z80FlagC
	c.F |= c.A & (z80FlagX | z80FlagY)
	c.tick(4)
}

func (c *CPUZ80) opCCF() {
	carry := c.Flag(z80FlagC)
	c.F = (c.F & (z80FlagS | z80FlagZ | z80FlagPV)) | (c.A & (z80FlagX | z80FlagY))
	if carry {
		c.F |= z80FlagH
	} else {
		c.F |= z80FlagC
	}
	c.tick(4)
}

func (c *CPUZ80) opLDBCNN() {
	c.SetBC(c.fetchWord())
	c.tick(10)
}

func (c *CPUZ80) opLDDENN() {
	c.SetDE(c.fetchWord())
	c.tick(10)
}

func (c *CPUZ80) opLDHLImm() {
	c.SetHL(c.fetchWord())
	c.tick(10)
}

func (c *CPUZ80) opLDSPNN() {
	c.SP = c.fetchWord()
	c.tick(10)
}

func (c *CPUZ80) opADDHLBC() {
	c.addHL(c.BC())
	c.tick(11)
}

func (c *CPUZ80) opADDHLDE() {
	c.addHL(c.DE())
	c.tick(11)
}

func (c *CPUZ80) opADDHLHL() {
	c.addHL(c.HL())
	c.tick(11)
}

func (c *CPUZ80) opADDHLSP() {
	c.addHL(c.SP)
	c.tick(11)
}

func (c *CPUZ80) opINCBC() {
	c.SetBC(c.BC() + 1)
	c.tick(6)
}

func (c *CPUZ80) opINCDE() {
	c.SetDE(c.DE() + 1)
	c.tick(6)
}

func (c *CPUZ80) opINCHL() {
	c.SetHL(c.HL() + 1)
	c.tick(6)
}

func (c *CPUZ80) opINCSP() {
	c.SP++
	c.tick(6)
}

func (c *CPUZ80) opDECBC() {
	c.SetBC(c.BC() - 1)
	c.tick(6)
}

func (c *CPUZ80) opDECDE() {
	c.SetDE(c.DE() - 1)
	c.tick(6)
}

func (c *CPUZ80) opDECHL() {
	c.SetHL(c.HL() - 1)
	c.tick(6)
}

func (c *CPUZ80) opDECSP() {
	c.SP--
	c.tick(6)
}

func (c *CPUZ80) opPUSHBC() {
	c.pushWord(c.BC())
	c.tick(11)
}

func (c *CPUZ80) opPUSHDE() {
	c.pushWord(c.DE())
	c.tick(11)
}

func (c *CPUZ80) opPUSHLH() {
	c.pushWord(c.HL())
	c.tick(11)
}

func (c *CPUZ80) opPUSHAF() {
	c.pushWord(c.AF())
	c.tick(11)
}

func (c *CPUZ80) opPOPBC() {
	c.SetBC(c.popWord())
	c.tick(10)
}

func (c *CPUZ80) opPOPDE() {
	c.SetDE(c.popWord())
	c.tick(10)
}

func (c *CPUZ80) opPOPHL() {
	c.SetHL(c.popWord())
	c.tick(10)
}

func (c *CPUZ80) opPOPAF() {
	c.SetAF(c.popWord())
	c.tick(10)
}

func (c *CPUZ80) opJPNN() {
	c.PC = c.fetchWord()
	c.tick(10)
}

func (c *CPUZ80) opJR() {
	disp := int8(c.fetchByte())
	c.PC = uint16(int32(c.PC) + int32(disp))
	c.tick(12)
}

func (c *CPUZ80) opDJNZ() {
	disp := int8(c.fetchByte())
	c.B--
	if c.B != 0 {
		c.PC = uint16(int32(c.PC) + int32(disp))
		c.tick(13)
	} else {
		c.tick(8)
	}
}

func (c *CPUZ80) opCALLNN() {
	addr := c.fetchWord()
	c.pushWord(c.PC)
	c.PC = addr
	c.tick(17)
}

func (c *CPUZ80) opRET() {
	c.PC = c.popWord()
	c.tick(10)
}

func (c *CPUZ80) opEXSPHL() {
	low := c.read(c.SP)
	high := c.read(c.SP + 1)
	memVal := uint16(high)<<8 | uint16(low)
	hl := c.HL()
	c.write(c.SP, byte(hl))
	c.write(c.SP+1, byte(hl>>8))
	c.SetHL(memVal)
	c.WZ = memVal
	c.tick(19)
}

func (c *CPUZ80) opEXAF() {
	c.ExAF()
	c.tick(4)
}

func (c *CPUZ80) opEXDEHL() {
	c.D, c.H = c.H, c.D
	c.E, c.L = c.L, c.E
	c.tick(4)
}

func (c *CPUZ80) opEXX() {
	c.Exx()
	c.tick(4)
}

func (c *CPUZ80) opJPHL() {
	c.PC = c.HL()
	c.WZ = c.PC
	c.tick(4)
}

func (c *CPUZ80) opLDNNHL() {
	addr := c.fetchWord()
	value := c.HL()
	c.write(addr, byte(value))
	c.write(addr+1, byte(value>>8))
	c.WZ = addr + 1
	c.tick(16)
}

func (c *CPUZ80) opLDHLNN() {
	addr := c.fetchWord()
	low := c.read(addr)
	high := c.read(addr + 1)
	c.SetHL(uint16(high)<<8 | uint16(low))
	c.WZ = addr + 1
	c.tick(16)
}

func (c *CPUZ80) opLDNNA() {
	addr := c.fetchWord()
	c.write(addr, c.A)
	c.WZ = addr
	c.tick(13)
}

func (c *CPUZ80) opLDANN() {
	addr := c.fetchWord()
	c.A = c.read(addr)
	c.WZ = addr
	c.tick(13)
}

func (c *CPUZ80) opLDBCA() {
	c.write(c.BC(), c.A)
	c.tick(7)
}

func (c *CPUZ80) opLDABC() {
	c.A = c.read(c.BC())
	c.tick(7)
}

func (c *CPUZ80) opLDDEA() {
	c.write(c.DE(), c.A)
	c.tick(7)
}

func (c *CPUZ80) opLDABD() {
	c.A = c.read(c.DE())
	c.tick(7)
}

func (c *CPUZ80) opLDSPHL() {
	c.SP = c.HL()
	c.tick(6)
}

func (c *CPUZ80) opOUTNA() {
	port := uint16(c.A)<<8 | uint16(c.fetchByte())
	c.out(port, c.A)
	c.tick(11)
}

func (c *CPUZ80) opINAN() {
	port := uint16(c.A)<<8 | uint16(c.fetchByte())
	c.A = c.in(port)
	c.updateInFlags(c.A)
	c.tick(11)
}

func (c *CPUZ80) opRLCA() {
	carry := c.A&0x80 != 0
	c.A = c.A<<1 | c.A>>7
	c.updateRotateFlags(carry)
	c.tick(4)
}

func (c *CPUZ80) opRRCA() {
	carry := c.A&0x01 != 0
	c.A = c.A>>1 | c.A<<7
	c.updateRotateFlags(carry)
	c.tick(4)
}

func (c *CPUZ80) opRLA() {
	carryIn := c.Flag(z80FlagC)
	carryOut := c.A&0x80 != 0
	c.A = c.A << 1
	if carryIn {
		c.A |= 0x01
	}
	c.updateRotateFlags(carryOut)
	c.tick(4)
}

func (c *CPUZ80) opRRA() {
	carryIn := c.Flag(z80FlagC)
	carryOut := c.A&0x01 != 0
	c.A = c.A >> 1
	if carryIn {
		c.A |= 0x80
	}
	c.updateRotateFlags(carryOut)
	c.tick(4)
}

func (c *CPUZ80) opRST00() {
	c.opRST(0x00)
}

func (c *CPUZ80) opRST08() {
	c.opRST(0x08)
}

func (c *CPUZ80) opRST10() {
	c.opRST(0x10)
}

func (c *CPUZ80) opRST18() {
	c.opRST(0x18)
}

func (c *CPUZ80) opRST20() {
	c.opRST(0x20)
}

func (c *CPUZ80) opRST28() {
	c.opRST(0x28)
}

func (c *CPUZ80) opRST30() {
	c.opRST(0x30)
}

func (c *CPUZ80) opRST38() {
	c.opRST(0x38)
}

func (c *CPUZ80) opRST(vector uint16) {
	c.pushWord(c.PC)
	c.PC = vector
	c.tick(11)
}

func (c *CPUZ80) opCBPrefix() {
	opcode := c.fetchOpcode()
	c.cbOps[opcode](c)
}

func (c *CPUZ80) opDDPrefix() {
	opcode := c.fetchOpcode()
	prev := c.prefixMode
	c.prefixMode = z80PrefixDD
	c.prefixOpcode = opcode
	c.ddOps[opcode](c)
	c.prefixMode = prev
}

func (c *CPUZ80) opFDPrefix() {
	opcode := c.fetchOpcode()
	prev := c.prefixMode
	c.prefixMode = z80PrefixFD
	c.prefixOpcode = opcode
	c.fdOps[opcode](c)
	c.prefixMode = prev
}

func (c *CPUZ80) opEDPrefix() {
	opcode := c.fetchOpcode()
	c.edOps[opcode](c)
}


func (c *CPUZ80) opINCB() {
	c.B = c.inc8(c.B)
	c.tick(4)
}

func (c *CPUZ80) opINCC() {
	c.C = c.inc8(c.C)
	c.tick(4)
}

func (c *CPUZ80) opINCD() {
	c.D = c.inc8(c.D)
	c.tick(4)
}

func (c *CPUZ80) opINCE() {
	c.E = c.inc8(c.E)
	c.tick(4)
}

func (c *CPUZ80) opINCH() {
	c.writeReg8(4, c.inc8(c.readReg8(4)))
	c.tick(4)
}

func (c *CPUZ80) opINCL() {
	c.writeReg8(5, c.inc8(c.readReg8(5)))
	c.tick(4)
}

func (c *CPUZ80) opINCHLMem() {
	addr := c.HL()
	value := c.read(addr)
	value = c.inc8(value)
	c.write(addr, value)
	c.tick(11)
}

func (c *CPUZ80) opINCA() {
	c.A = c.inc8(c.A)
	c.tick(4)
}

func (c *CPUZ80) opDECB() {
	c.B = c.dec8(c.B)
	c.tick(4)
}

func (c *CPUZ80) opDECC() {
	c.C = c.dec8(c.C)
	c.tick(4)
}

func (c *CPUZ80) opDECD() {
	c.D = c.dec8(c.D)
	c.tick(4)
}

func (c *CPUZ80) opDECE() {
	c.E = c.dec8(c.E)
	c.tick(4)
}

func (c *CPUZ80) opDECH() {
	c.writeReg8(4, c.dec8(c.readReg8(4)))
	c.tick(4)
}

func (c *CPUZ80) opDECL() {
	c.writeReg8(5, c.dec8(c.readReg8(5)))
	c.tick(4)
}

func (c *CPUZ80) opDECHLMem() {
	addr := c.HL()
	value := c.read(addr)
	value = c.dec8(value)
	c.write(addr, value)
	c.tick(11)
}

func (c *CPUZ80) opDECA() {
	c.A = c.dec8(c.A)
	c.tick(4)
}

func (c *CPUZ80) opDI() {
	c.IFF1 = false
	c.IFF2 = false
	c.iffDelay = 0
	c.tick(4)
}

func (c *CPUZ80) opEI() {
	c.iffDelay = 2
	c.tick(4)
}

func (c *CPUZ80) opJPNZ() {
	c.jpCond(!c.Flag(z80FlagZ))
}

func (c *CPUZ80) opJPZ() {
	c.jpCond(c.Flag(z80FlagZ))
}

func (c *CPUZ80) opJPNC() {
	c.jpCond(!c.Flag(z80FlagC))
}

func (c *CPUZ80) opJPC() {
	c.jpCond(c.Flag(z80FlagC))
}

func (c *CPUZ80) opJPPO() {
	c.jpCond(!c.Flag(z80FlagPV))
}

func (c *CPUZ80) opJPPE() {
	c.jpCond(c.Flag(z80FlagPV))
}

func (c *CPUZ80) opJPNS() {
	c.jpCond(!c.Flag(z80FlagS))
}

func (c *CPUZ80) opJPS() {
	c.jpCond(c.Flag(z80FlagS))
}

func (c *CPUZ80) opJRNZ() {
	c.jrCond(!c.Flag(z80FlagZ))
}

func (c *CPUZ80) opJRZ() {
	c.jrCond(c.Flag(z80FlagZ))
}

func (c *CPUZ80) opJRNC() {
	c.jrCond(!c.Flag(z80FlagC))
}

func (c *CPUZ80) opJRC() {
	c.jrCond(c.Flag(z80FlagC))
}

func (c *CPUZ80) opCALLNZ() {
	c.callCond(!c.Flag(z80FlagZ))
}

func (c *CPUZ80) opCALLZ() {
	c.callCond(c.Flag(z80FlagZ))
}

func (c *CPUZ80) opCALLNC() {
	c.callCond(!c.Flag(z80FlagC))
}

func (c *CPUZ80) opCALLC() {
	c.callCond(c.Flag(z80FlagC))
}

func (c *CPUZ80) opCALLPO() {
	c.callCond(!c.Flag(z80FlagPV))
}

func (c *CPUZ80) opCALLPE() {
	c.callCond(c.Flag(z80FlagPV))
}

func (c *CPUZ80) opCALLNS() {
	c.callCond(!c.Flag(z80FlagS))
}

func (c *CPUZ80) opCALLS() {
	c.callCond(c.Flag(z80FlagS))
}

func (c *CPUZ80) opRETNZ() {
	c.retCond(!c.Flag(z80FlagZ))
}

func (c *CPUZ80) opRETZ() {
	c.retCond(c.Flag(z80FlagZ))
}

func (c *CPUZ80) opRETNC() {
	c.retCond(!c.Flag(z80FlagC))
}

func (c *CPUZ80) opRETC() {
	c.retCond(c.Flag(z80FlagC))
}

func (c *CPUZ80) opRETPO() {
	c.retCond(!c.Flag(z80FlagPV))
}

func (c *CPUZ80) opRETPE() {
	c.retCond(c.Flag(z80FlagPV))
}

func (c *CPUZ80) opRETNS() {
	c.retCond(!c.Flag(z80FlagS))
}

func (c *CPUZ80) opRETS() {
	c.retCond(c.Flag(z80FlagS))
}

func (c *CPUZ80) addHL(value uint16) {
	hl := c.HL()
	sum := uint32(hl) + uint32(value)

	c.F &^= z80FlagH | z80FlagN | z80FlagC | z80FlagX | z80FlagY
	if ((hl&0x0FFF)+(value&0x0FFF))&0x1000 != 0 {
		c.F |= z80FlagH
	}
	if sum > 0xFFFF {
		c.F |= z80FlagC
	}
	result := uint16(sum)
	c.SetHL(result)
	c.F |= byte((result >> 8) & 0x28)
}

func (c *CPUZ80) addIX(value uint16) {
	sum := uint32(c.IX) + uint32(value)
	c.F &^= z80FlagH | z80FlagN | z80FlagC | z80FlagX | z80FlagY
	if ((c.IX&0x0FFF)+(value&0x0FFF))&0x1000 != 0 {
		c.F |= z80FlagH
	}
	if sum > 0xFFFF {
		c.F |= z80FlagC
	}
	c.IX = uint16(sum)
	c.F |= byte((c.IX >> 8) & 0x28)
}

func (c *CPUZ80) addIY(value uint16) {
	sum := uint32(c.IY) + uint32(value)
	c.F &^= z80FlagH | z80FlagN | z80FlagC | z80FlagX | z80FlagY
	if ((c.IY&0x0FFF)+(value&0x0FFF))&0x1000 != 0 {
		c.F |= z80FlagH
	}
	if sum > 0xFFFF {
		c.F |= z80FlagC
	}
	c.IY = uint16(sum)
	c.F |= byte((c.IY >> 8) & 0x28)
}

func (c *CPUZ80) adcHL(value uint16) {
	hl := c.HL()
	carry := uint16(0)
	if c.Flag(z80FlagC) {
		carry = 1
	}
	sum := uint32(hl) + uint32(value) + uint32(carry)
	res := uint16(sum)

	c.F = 0
	if res == 0 {
		c.F |= z80FlagZ
	}
	if res&0x8000 != 0 {
		c.F |= z80FlagS
	}
	if ((hl&0x0FFF)+(value&0x0FFF)+carry)&0x1000 != 0 {
		c.F |= z80FlagH
	}
	if ((^(hl ^ value))&(hl^res))&0x8000 != 0 {
		c.F |= z80FlagPV
	}
	if sum > 0xFFFF {
		c.F |= z80FlagC
	}
	c.F |= byte((res >> 8) & 0x28)
	c.SetHL(res)
}

func (c *CPUZ80) sbcHL(value uint16) {
	hl := c.HL()
	carry := uint16(0)
	if c.Flag(z80FlagC) {
		carry = 1
	}
	diff := int32(hl) - int32(value) - int32(carry)
	res := uint16(diff)

	c.F = z80FlagN
	if res == 0 {
		c.F |= z80FlagZ
	}
	if res&0x8000 != 0 {
		c.F |= z80FlagS
	}
	if int32(hl&0x0FFF)-int32(value&0x0FFF)-int32(carry) < 0 {
		c.F |= z80FlagH
	}
	if ((hl ^ value) & (hl ^ res) & 0x8000) != 0 {
		c.F |= z80FlagPV
	}
	if diff < 0 {
		c.F |= z80FlagC
	}
	c.F |= byte((res >> 8) & 0x28)
	c.SetHL(res)
}

func (c *CPUZ80) inc8(value byte) byte {
	res := value + 1
	c.F = (c.F & z80FlagC)
	if res == 0 {
		c.F |= z80FlagZ
	}
	if res&0x80 != 0 {
		c.F |= z80FlagS
	}
	if (value&0x0F)+1 > 0x0F {
		c.F |= z80FlagH
	}
	if value == 0x7F {
		c.F |= z80FlagPV
	}
	c.F |= res & (z80FlagX | z80FlagY)
	return res
}

func (c *CPUZ80) dec8(value byte) byte {
	res := value - 1
	c.F = (c.F & z80FlagC) | z80FlagN
	if res == 0 {
		c.F |= z80FlagZ
	}
	if res&0x80 != 0 {
		c.F |= z80FlagS
	}
	if value&0x0F == 0 {
		c.F |= z80FlagH
	}
	if value == 0x80 {
		c.F |= z80FlagPV
	}
	c.F |= res & (z80FlagX | z80FlagY)
	return res
}

func (c *CPUZ80) updateInFlags(value byte) {
	carry := c.F & z80FlagC
	c.F = carry
	c.setSZPFlags(value)
}

func (c *CPUZ80) updateAParityFlagsPreserveCarry() {
	carry := c.F & z80FlagC
	value := c.A
	c.F = carry
	if value == 0 {
		c.F |= z80FlagZ
	}
	if value&0x80 != 0 {
		c.F |= z80FlagS
	}
	if parity8(value) {
		c.F |= z80FlagPV
	}
	c.F |= value & (z80FlagX | z80FlagY)
}

func (c *CPUZ80) updateLDAIRFlags() {
	carry := c.F & z80FlagC
	value := c.A
	c.F = carry
	if value == 0 {
		c.F |= z80FlagZ
	}
	if value&0x80 != 0 {
		c.F |= z80FlagS
	}
	if c.IFF2 {
		c.F |= z80FlagPV
	}
	c.F |= value & (z80FlagX | z80FlagY)
}

func (c *CPUZ80) updateLDIFlags(value byte, bc uint16) {
	sum := c.A + value
	c.F = c.F & (z80FlagS | z80FlagZ | z80FlagC)
	if bc != 0 {
		c.F |= z80FlagPV
	}
	c.F |= sum & (z80FlagX | z80FlagY)
}

func (c *CPUZ80) updateBlockIOFlags() {
	keep := c.F & (z80FlagS | z80FlagH | z80FlagPV | z80FlagC | z80FlagX | z80FlagY)
	c.F = keep | z80FlagN
	if c.B == 0 {
		c.F |= z80FlagZ
	}
}

func (c *CPUZ80) updateRotateFlags(carry bool) {
	f := c.F & (z80FlagS | z80FlagZ | z80FlagPV)
	if carry {
		f |= z80FlagC
	}
	f |= c.A & (z80FlagX | z80FlagY)
	c.F = f
}

func (c *CPUZ80) rotate8Left(value byte, carryIn bool) (byte, bool) {
	newCarry := value&0x80 != 0
	res := value << 1
	if carryIn {
		res |= 0x01
	}
	return res, newCarry
}

func (c *CPUZ80) rotate8Right(value byte, carryIn bool) (byte, bool) {
	newCarry := value&0x01 != 0
	res := value >> 1
	if carryIn {
		res |= 0x80
	}
	return res, newCarry
}

func (c *CPUZ80) shiftLeftArithmetic(value byte) (byte, bool) {
	newCarry := value&0x80 != 0
	res := value << 1
	return res, newCarry
}

func (c *CPUZ80) shiftRightArithmetic(value byte) (byte, bool) {
	newCarry := value&0x01 != 0
	res := (value >> 1) | (value & 0x80)
	return res, newCarry
}

func (c *CPUZ80) shiftRightLogical(value byte) (byte, bool) {
	newCarry := value&0x01 != 0
	res := value >> 1
	return res, newCarry
}

func (c *CPUZ80) setSZPFlags(value byte) {
	c.F &^= z80FlagS | z80FlagZ | z80FlagPV | z80FlagX | z80FlagY
	if value == 0 {
		c.F |= z80FlagZ
	}
	if value&0x80 != 0 {
		c.F |= z80FlagS
	}
	if parity8(value) {
		c.F |= z80FlagPV
	}
	c.F |= value & (z80FlagX | z80FlagY)
}
