package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/LucasTruppel/comissao-project/internal/config"
	"github.com/LucasTruppel/comissao-project/internal/server"
)

var (
	port    = flag.Int("port", 0, "porta do servidor (sobrepõe config.toml)")
	devMode = flag.Bool("dev", false, "modo de desenvolvimento")
	dataDir = flag.String("dataDir", "", "diretório de dados (sobrepõe config.toml)")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("falha ao carregar configuração, usando padrões: %v", err)
		cfg = config.DefaultConfig()
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("falha ao iniciar servidor: %v", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		fmt.Printf("comissao escutando em %s\n", addr)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("falha ao servir: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("encerrando...")
	if err := srv.Close(); err != nil {
		log.Printf("falha ao encerrar: %v", err)
	}
}
