// Command sourcesim emulates the BCI signal source for manual testing.
// Type "i" for izquierda, "d" for derecha, any other text to send it
// verbatim, or "quit" to exit; each line is sent to the relay's TCP
// ingest port and the acknowledgment is printed.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/miguel-isidro05/neurosync-rehab/internal/config"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Load()
	addr := "localhost:" + cfg.TCPPort

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("could not connect, is the relay running?")
	}
	defer conn.Close()

	fmt.Printf("Connected to %s\n", addr)
	fmt.Println("Commands: i (izquierda), d (derecha), free text, quit")

	reply := bufio.NewReader(conn)
	stdin := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !stdin.Scan() {
			break
		}
		line := stdin.Text()
		if line == "quit" {
			break
		}
		if line == "" {
			continue
		}

		if _, err := conn.Write([]byte(line + "\n")); err != nil {
			log.Fatal().Err(err).Msg("send failed")
		}

		if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			log.Fatal().Err(err).Msg("set read deadline failed")
		}
		ack, err := reply.ReadString('\n')
		if err != nil {
			log.Fatal().Err(err).Msg("no acknowledgment from relay")
		}
		fmt.Print(ack)
	}

	fmt.Println("Disconnected. Goodbye!")
}
