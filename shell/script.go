package shell

import (
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

// Commands exposed to scripts as quoridor_<name>.
var scriptCommands = []string{
	"new", "show", "moves", "move", "wall", "undo", "aiplay", "set", "save", "load",
	"autoplay",
}

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("quoridor_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand runs "<name> <first argument>" through the shell and pushes
// the output.
func luaCommand(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		line := name
		if L.GetTop() > 0 {
			line += " " + L.ToString(1)
		}
		sc := getShell(L)
		cmd, err := extractFields(line)
		if err == nil {
			var r *Response
			r, err = sc.dispatch(cmd)
			if err == nil {
				L.Push(lua.LString(r.message))
				return 1
			}
		}
		log.Err(err).Str("cmd", name).Msg("error-executing-script-command")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
}

func Winner(L *lua.LState) int {
	sc := getShell(L)
	if sc.game == nil {
		L.Push(lua.LNumber(-1))
		return 1
	}
	w, _ := sc.game.Winner()
	L.Push(lua.LNumber(w))
	return 1
}

func Turn(L *lua.LState) int {
	sc := getShell(L)
	if sc.game == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(sc.game.PlayerOnTurn()))
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}
	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc
	L.SetGlobal("quoridor_shell", lsc)
	for _, name := range scriptCommands {
		L.SetGlobal("quoridor_"+name, L.NewFunction(luaCommand(name)))
	}
	L.SetGlobal("quoridor_winner", L.NewFunction(Winner))
	L.SetGlobal("quoridor_turn", L.NewFunction(Turn))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return msg("ran " + filepath), nil
}
